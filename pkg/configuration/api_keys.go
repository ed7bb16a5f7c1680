package configuration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// APIKeys holds provider credentials, stored separately from the config so
// the config file can be shared or committed without leaking secrets.
type APIKeys struct {
	Gemini  string `json:"gemini,omitempty"`
	Netlify string `json:"netlify,omitempty"`
	GitHub  string `json:"github,omitempty"`
	Vercel  string `json:"vercel,omitempty"`
}

// GetAPIKeysPath returns the full path to the API keys file.
func GetAPIKeysPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, APIKeysFileName), nil
}

// LoadAPIKeys loads API keys from the file, then overlays environment
// variables so CI and one-off runs need no key file at all.
func LoadAPIKeys() (*APIKeys, error) {
	path, err := GetAPIKeysPath()
	if err != nil {
		return nil, err
	}

	keys := &APIKeys{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, keys); err != nil {
			return nil, fmt.Errorf("failed to parse API keys file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read API keys file: %w", err)
	}

	keys.PopulateFromEnvironment()
	return keys, nil
}

// SaveAPIKeys saves API keys with owner-only permissions.
func SaveAPIKeys(keys *APIKeys) error {
	path, err := GetAPIKeysPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal API keys: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// PopulateFromEnvironment fills unset keys from environment variables.
// Returns true when anything changed.
func (keys *APIKeys) PopulateFromEnvironment() bool {
	updated := false
	if envKey := os.Getenv("GEMINI_API_KEY"); envKey != "" && keys.Gemini == "" {
		keys.Gemini = envKey
		updated = true
	}
	if envKey := os.Getenv("NETLIFY_API_TOKEN"); envKey != "" && keys.Netlify == "" {
		keys.Netlify = envKey
		updated = true
	}
	if envKey := os.Getenv("GITHUB_TOKEN"); envKey != "" && keys.GitHub == "" {
		keys.GitHub = envKey
		updated = true
	}
	if envKey := os.Getenv("VERCEL_TOKEN"); envKey != "" && keys.Vercel == "" {
		keys.Vercel = envKey
		updated = true
	}
	return updated
}

// GetAPIKey returns the key for a provider, or "" when unset.
func (keys *APIKeys) GetAPIKey(provider string) string {
	switch provider {
	case "gemini":
		return keys.Gemini
	case "netlify":
		return keys.Netlify
	case "github":
		return keys.GitHub
	case "vercel":
		return keys.Vercel
	default:
		return ""
	}
}

// SetAPIKey sets the key for a provider.
func (keys *APIKeys) SetAPIKey(provider, key string) {
	switch provider {
	case "gemini":
		keys.Gemini = key
	case "netlify":
		keys.Netlify = key
	case "github":
		keys.GitHub = key
	case "vercel":
		keys.Vercel = key
	}
}

// HasAPIKey checks whether a provider has a key set.
func (keys *APIKeys) HasAPIKey(provider string) bool {
	return keys.GetAPIKey(provider) != ""
}

// PromptForAPIKey asks the user for a key with echo disabled, falling back
// to plain input when the terminal does not support it.
func PromptForAPIKey(provider string) (string, error) {
	fmt.Printf("API key required for %s\n", providerDisplayName(provider))
	fmt.Printf("Please enter your %s API key: ", providerDisplayName(provider))

	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println()
		reader := bufio.NewReader(os.Stdin)
		key, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		byteKey = []byte(strings.TrimSpace(key))
	} else {
		fmt.Println()
	}

	apiKey := strings.TrimSpace(string(byteKey))
	if apiKey == "" {
		return "", fmt.Errorf("no API key provided")
	}
	return apiKey, nil
}

func providerDisplayName(provider string) string {
	switch provider {
	case "gemini":
		return "Google Gemini"
	case "netlify":
		return "Netlify"
	case "github":
		return "GitHub"
	case "vercel":
		return "Vercel"
	case "ollama":
		return "Ollama (local)"
	default:
		return provider
	}
}

// RequiresAPIKey reports whether a generation provider needs a key. Local
// Ollama does not.
func RequiresAPIKey(provider string) bool {
	return provider != "ollama"
}
