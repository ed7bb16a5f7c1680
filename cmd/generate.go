package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitesmith/sitesmith/pkg/generation"
)

var (
	generateOut      string
	generateProvider string
	generateTimeout  time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate \"prompt\"",
	Short: "Generate a site from a prompt and write it to disk",
	Long: `Runs one generation without starting the editor. The resulting files
(index.html, styles.css, script.js) are written to the output directory.

If the provider fails, the fallback page is written instead and the command
exits non-zero so scripts can detect the degraded result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, keys, err := loadConfigAndKeys()
		if err != nil {
			return err
		}
		if generateProvider != "" {
			cfg.Provider = generateProvider
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		generator, err := buildGenerator(cfg, keys)
		if err != nil {
			return err
		}

		prompt := strings.Join(args, " ")
		ctx, cancel := context.WithTimeout(cmd.Context(), generateTimeout)
		defer cancel()

		orchestrator := generation.NewOrchestrator(generator)
		files, genErr := orchestrator.Generate(ctx, prompt)
		if genErr != nil && files == nil {
			return genErr
		}

		if err := os.MkdirAll(generateOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(generateOut, name)
			if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			fmt.Printf("wrote %s (%d bytes)\n", path, len(files[name]))
		}

		if genErr != nil {
			var transport *generation.TransportError
			if errors.As(genErr, &transport) {
				return fmt.Errorf("provider unreachable, wrote fallback page: %w", genErr)
			}
			return fmt.Errorf("provider returned unusable output, wrote fallback page: %w", genErr)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", ".", "Output directory")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Generation provider: gemini or ollama")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 2*time.Minute, "Generation timeout")
}
