// Package publish pushes the workspace files to static-hosting providers.
// Each provider takes the file mapping, a project name, and credentials, and
// returns the deployed URL.
package publish

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result describes one completed deployment.
type Result struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	AdminURL  string    `json:"adminUrl,omitempty"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Files     []string  `json:"files"`
}

// httpClient is shared by all providers; deployments can take a while.
var httpClient = &http.Client{Timeout: 120 * time.Second}

// validateFiles drops blank entries and requires index.html to remain.
func validateFiles(files map[string]string) (map[string]string, error) {
	valid := make(map[string]string, len(files))
	for name, content := range files {
		if strings.TrimSpace(content) != "" {
			valid[name] = content
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no non-empty files to publish")
	}
	if _, ok := valid["index.html"]; !ok {
		return nil, fmt.Errorf("index.html is required for deployment")
	}
	return valid, nil
}

func filenames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	return names
}

// Slug converts a project name to a DNS-safe site name: diacritics folded
// away, lowercased, anything else collapsed to single hyphens.
func Slug(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "site"
	}
	return slug
}

// uniqueName appends a timestamp so repeated publishes of the same project
// never collide on the provider side.
func uniqueName(projectName string) string {
	return fmt.Sprintf("%s-%d", Slug(projectName), time.Now().UnixMilli())
}
