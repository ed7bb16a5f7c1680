package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a named starter file set the workspace can be seeded from
// instead of the built-in welcome page. Templates live as YAML files in the
// templates directory, one file per template:
//
//	name: blog
//	description: A simple two-column blog layout
//	files:
//	  index.html: |
//	    <!DOCTYPE html>
//	    ...
type Template struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Files       map[string]string `yaml:"files"`
}

// GetTemplatesDir returns the templates directory, creating it if missing.
func GetTemplatesDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	templatesDir := filepath.Join(dir, TemplatesDirName)
	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create templates directory: %w", err)
	}
	return templatesDir, nil
}

// ListTemplates loads every parseable template in the directory, sorted by
// name. Unparseable files are skipped, not fatal.
func ListTemplates(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		tpl, err := LoadTemplate(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		templates = append(templates, *tpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// LoadTemplate reads and validates a single template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if tpl.Name == "" {
		tpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(tpl.Files) == 0 {
		return nil, fmt.Errorf("template %s has no files", tpl.Name)
	}
	return &tpl, nil
}

// FindTemplate returns the named template from the directory.
func FindTemplate(dir, name string) (*Template, error) {
	templates, err := ListTemplates(dir)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].Name == name {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("no template named %q", name)
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
