package cmd

import (
	"fmt"

	"github.com/sitesmith/sitesmith/pkg/configuration"
	"github.com/sitesmith/sitesmith/pkg/generation"
)

// buildGenerator resolves the configured provider into a generation client,
// prompting for a missing API key unless prompting is disabled.
func buildGenerator(cfg *configuration.Config, keys *configuration.APIKeys) (generation.Generator, error) {
	switch cfg.Provider {
	case "ollama":
		return generation.NewOllamaClient(cfg.OllamaModel), nil

	case "gemini":
		key := keys.GetAPIKey("gemini")
		if key == "" && !cfg.SkipPrompt {
			entered, err := configuration.PromptForAPIKey("gemini")
			if err != nil {
				return nil, err
			}
			keys.SetAPIKey("gemini", entered)
			if err := configuration.SaveAPIKeys(keys); err != nil {
				return nil, err
			}
			key = entered
		}
		if key == "" {
			return nil, fmt.Errorf("no Gemini API key configured; set GEMINI_API_KEY or run 'sitesmith init'")
		}
		return generation.NewGeminiClient(key, cfg.GeminiModel), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// loadConfigAndKeys loads the config and API keys, falling back to defaults
// when nothing is on disk yet.
func loadConfigAndKeys() (*configuration.Config, *configuration.APIKeys, error) {
	cfg, err := configuration.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	keys, err := configuration.LoadAPIKeys()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load API keys: %w", err)
	}
	return cfg, keys, nil
}
