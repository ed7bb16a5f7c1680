package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const vercelAPIBase = "https://api.vercel.com"

// Vercel deploys with a single request carrying the files inline.
type Vercel struct {
	Token   string
	BaseURL string
}

type vercelDeployment struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Publish implements the deployment collaborator for Vercel.
func (v *Vercel) Publish(ctx context.Context, files map[string]string, projectName string) (*Result, error) {
	if v.Token == "" {
		return nil, fmt.Errorf("vercel API token is required")
	}
	valid, err := validateFiles(files)
	if err != nil {
		return nil, err
	}

	base := v.BaseURL
	if base == "" {
		base = vercelAPIBase
	}

	type vercelFile struct {
		File string `json:"file"`
		Data string `json:"data"`
	}
	inline := make([]vercelFile, 0, len(valid))
	for name, content := range valid {
		inline = append(inline, vercelFile{File: name, Data: content})
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"name":   Slug(projectName),
		"files":  inline,
		"target": "production",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v13/deployments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("vercel API returned status %d: %s", resp.StatusCode, data)
	}

	deployment := vercelDeployment{}
	if err := json.Unmarshal(data, &deployment); err != nil {
		return nil, fmt.Errorf("decode deployment response: %w", err)
	}

	return &Result{
		ID:        deployment.ID,
		Name:      projectName,
		URL:       "https://" + deployment.URL,
		Service:   "vercel",
		Timestamp: time.Now(),
		Files:     filenames(valid),
	}, nil
}
