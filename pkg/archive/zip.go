// Package archive packages the workspace files into a downloadable zip.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// CompileIgnoreRules turns gitignore-style patterns into a matcher. Returns
// nil when there are no patterns, which Zip treats as "exclude nothing".
func CompileIgnoreRules(patterns []string) *ignore.GitIgnore {
	var rules []string
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			rules = append(rules, p)
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(rules...)
}

// Zip writes the given files into an in-memory zip archive. Blank files and
// files matching the ignore rules are skipped; entries are written in sorted
// order so identical inputs produce identical archives.
func Zip(files map[string]string, rules *ignore.GitIgnore) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		if strings.TrimSpace(files[name]) == "" {
			continue
		}
		if rules != nil && rules.MatchesPath(name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no files to archive")
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := entry.Write([]byte(files[name])); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
