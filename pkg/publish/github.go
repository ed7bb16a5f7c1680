package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

const githubAPIBase = "https://api.github.com"

// GitHub deploys by creating a public repository, committing each file via
// the contents API, and enabling Pages on the main branch.
type GitHub struct {
	Token    string
	Username string
	BaseURL  string
}

type githubRepo struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// Publish implements the deployment collaborator for GitHub Pages.
func (g *GitHub) Publish(ctx context.Context, files map[string]string, projectName string) (*Result, error) {
	if g.Token == "" || g.Username == "" {
		return nil, fmt.Errorf("github token and username are required")
	}
	valid, err := validateFiles(files)
	if err != nil {
		return nil, err
	}

	base := g.BaseURL
	if base == "" {
		base = githubAPIBase
	}
	repoName := uniqueName(projectName)

	repoPayload, _ := json.Marshal(map[string]interface{}{
		"name":        repoName,
		"description": "AI generated web project: " + projectName,
		"public":      true,
		"auto_init":   true,
	})
	repo := githubRepo{}
	if err := g.do(ctx, http.MethodPost, base+"/user/repos", repoPayload, &repo); err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	// Upload in a stable order so retries and logs are deterministic.
	names := filenames(valid)
	sort.Strings(names)
	for _, name := range names {
		uploadPayload, _ := json.Marshal(map[string]string{
			"message": "Add " + name,
			"content": base64.StdEncoding.EncodeToString([]byte(valid[name])),
			"branch":  "main",
		})
		url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", base, g.Username, repoName, name)
		if err := g.do(ctx, http.MethodPut, url, uploadPayload, nil); err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
	}

	// Enabling Pages can fail when the repo is seconds old; the deploy is
	// still usable once GitHub catches up, so this is best effort.
	pagesPayload, _ := json.Marshal(map[string]interface{}{
		"source": map[string]string{"branch": "main", "path": "/"},
	})
	pagesURL := fmt.Sprintf("%s/repos/%s/%s/pages", base, g.Username, repoName)
	_ = g.do(ctx, http.MethodPost, pagesURL, pagesPayload, nil)

	return &Result{
		ID:        fmt.Sprintf("%d", repo.ID),
		Name:      projectName,
		URL:       fmt.Sprintf("https://%s.github.io/%s", g.Username, repoName),
		AdminURL:  repo.HTMLURL,
		Service:   "github-pages",
		Timestamp: time.Now(),
		Files:     names,
	}, nil
}

func (g *GitHub) do(ctx context.Context, method, url string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+g.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github API returned status %d: %s", resp.StatusCode, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
