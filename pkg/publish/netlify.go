package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sitesmith/sitesmith/pkg/archive"
)

const netlifyAPIBase = "https://api.netlify.com/api/v1"

// Netlify deploys by creating a site and uploading a zip of the files.
type Netlify struct {
	Token   string
	BaseURL string
}

type netlifySite struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	SSLURL   string `json:"ssl_url"`
	AdminURL string `json:"admin_url"`
}

// Publish implements the deployment collaborator for Netlify.
func (n *Netlify) Publish(ctx context.Context, files map[string]string, projectName string) (*Result, error) {
	if n.Token == "" {
		return nil, fmt.Errorf("netlify API token is required")
	}
	valid, err := validateFiles(files)
	if err != nil {
		return nil, err
	}

	zipped, err := archive.Zip(valid, nil)
	if err != nil {
		return nil, fmt.Errorf("package files: %w", err)
	}

	base := n.BaseURL
	if base == "" {
		base = netlifyAPIBase
	}

	// Create the site first, then deploy the zip to it.
	sitePayload, _ := json.Marshal(map[string]string{"name": uniqueName(projectName)})
	site := netlifySite{}
	if err := n.do(ctx, http.MethodPost, base+"/sites", "application/json", sitePayload, &site); err != nil {
		return nil, fmt.Errorf("create netlify site: %w", err)
	}

	deployURL := fmt.Sprintf("%s/sites/%s/deploys", base, site.ID)
	if err := n.do(ctx, http.MethodPost, deployURL, "application/zip", zipped, nil); err != nil {
		return nil, fmt.Errorf("deploy to netlify site %s: %w", site.ID, err)
	}

	url := site.SSLURL
	if url == "" {
		url = site.URL
	}
	return &Result{
		ID:        site.ID,
		Name:      projectName,
		URL:       url,
		AdminURL:  site.AdminURL,
		Service:   "netlify",
		Timestamp: time.Now(),
		Files:     filenames(valid),
	}, nil
}

func (n *Netlify) do(ctx context.Context, method, url, contentType string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.Token)
	req.Header.Set("Content-Type", contentType)

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
		return fmt.Errorf("netlify API returned status %d: %s", resp.StatusCode, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
