package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitesmith/sitesmith/pkg/configuration"
)

var initProvider string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file and store API keys",
	Long: `Writes the default configuration to ~/.sitesmith/config.json and prompts
for the API key the chosen provider needs. Keys already present in the
environment are picked up without prompting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configuration.DefaultConfig()
		if initProvider != "" {
			cfg.Provider = initProvider
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		keys, err := configuration.LoadAPIKeys()
		if err != nil {
			return err
		}

		if configuration.RequiresAPIKey(cfg.Provider) && !keys.HasAPIKey(cfg.Provider) {
			key, err := configuration.PromptForAPIKey(cfg.Provider)
			if err != nil {
				return err
			}
			keys.SetAPIKey(cfg.Provider, key)
		}
		if err := configuration.SaveAPIKeys(keys); err != nil {
			return fmt.Errorf("failed to save API keys: %w", err)
		}

		path, err := configuration.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s (provider: %s)\n", path, cfg.Provider)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initProvider, "provider", "", "Generation provider: gemini or ollama")
}
