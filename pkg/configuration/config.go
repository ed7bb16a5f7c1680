// Package configuration owns the on-disk application settings: the config
// file, the API key store, and the starter template directory, all under
// ~/.sitesmith.
package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigVersion    = "1.0"
	ConfigDirName    = ".sitesmith"
	ConfigFileName   = "config.json"
	APIKeysFileName  = "api_keys.json"
	HistoryFileName  = "history.json"
	TemplatesDirName = "templates"
)

// Config represents the application configuration.
type Config struct {
	Version string `json:"version"`

	// Generation provider: "gemini" or "ollama".
	Provider    string `json:"provider"`
	GeminiModel string `json:"gemini_model,omitempty"`
	OllamaModel string `json:"ollama_model,omitempty"`

	// Server settings.
	Port int `json:"port,omitempty"`

	// Auto-save debounce in milliseconds. Zero uses the built-in default.
	AutoSaveDelayMs int `json:"auto_save_delay_ms,omitempty"`

	// Gitignore-style patterns excluded from downloads and deployments.
	PublishIgnore []string `json:"publish_ignore,omitempty"`

	// GitHub Pages deployment identity.
	GitHubUsername string `json:"github_username,omitempty"`

	// SkipPrompt disables interactive confirmation/key prompts.
	SkipPrompt bool `json:"skip_prompt,omitempty"`
}

// DefaultConfig returns the settings a fresh install starts with.
func DefaultConfig() *Config {
	return &Config{
		Version:  ConfigVersion,
		Provider: "gemini",
		Port:     54380,
	}
}

// GetConfigDir returns (and creates if needed) the config directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// GetConfigPath returns the full path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetHistoryPath returns the full path to the prompt history file.
func GetHistoryPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFileName), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist yet.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its canonical location.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini", "ollama":
	case "":
		return fmt.Errorf("provider cannot be empty")
	default:
		return fmt.Errorf("unknown provider %q (expected gemini or ollama)", c.Provider)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.AutoSaveDelayMs < 0 {
		return fmt.Errorf("auto_save_delay_ms cannot be negative")
	}
	return nil
}
