package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitesmith/sitesmith/pkg/archive"
	"github.com/sitesmith/sitesmith/pkg/publish"
)

var (
	publishDir  string
	publishName string
)

var publishCmd = &cobra.Command{
	Use:   "publish [netlify|github|vercel]",
	Short: "Deploy a site directory to a hosting service",
	Long: `Uploads the files in a directory to the chosen hosting service and
prints the live URL. Tokens come from the stored API keys or the matching
environment variable (NETLIFY_API_TOKEN, GITHUB_TOKEN, VERCEL_TOKEN).`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"netlify", "github", "vercel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, keys, err := loadConfigAndKeys()
		if err != nil {
			return err
		}

		service := strings.ToLower(args[0])
		token := keys.GetAPIKey(service)
		if token == "" {
			return fmt.Errorf("no %s token configured; run 'sitesmith init' or set the environment variable", service)
		}

		files, err := readSiteDir(publishDir, cfg.PublishIgnore)
		if err != nil {
			return err
		}

		name := publishName
		if name == "" {
			abs, err := filepath.Abs(publishDir)
			if err != nil {
				return err
			}
			name = publish.Slug(filepath.Base(abs))
		}

		var result *publish.Result
		switch service {
		case "netlify":
			deployer := &publish.Netlify{Token: token}
			result, err = deployer.Publish(cmd.Context(), files, name)
		case "github":
			if cfg.GitHubUsername == "" {
				return fmt.Errorf("no GitHub username configured; run 'sitesmith init'")
			}
			deployer := &publish.GitHub{Token: token, Username: cfg.GitHubUsername}
			result, err = deployer.Publish(cmd.Context(), files, name)
		case "vercel":
			deployer := &publish.Vercel{Token: token}
			result, err = deployer.Publish(cmd.Context(), files, name)
		default:
			return fmt.Errorf("unknown service %q", service)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Deployed %d files to %s\n", len(result.Files), result.Service)
		fmt.Printf("Live at: %s\n", result.URL)
		if result.AdminURL != "" {
			fmt.Printf("Admin:   %s\n", result.AdminURL)
		}
		return nil
	},
}

// readSiteDir loads every regular file under dir into a filename-to-content
// mapping, honoring the configured ignore patterns. Nested paths use forward
// slashes so deploy payloads look the same on every platform.
func readSiteDir(dir string, ignorePatterns []string) (map[string]string, error) {
	rules := archive.CompileIgnoreRules(ignorePatterns)

	files := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" || info.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found in %s", dir)
	}
	return files, nil
}

func init() {
	publishCmd.Flags().StringVarP(&publishDir, "dir", "d", ".", "Directory to deploy")
	publishCmd.Flags().StringVarP(&publishName, "name", "n", "", "Project name (default: directory name)")
}
