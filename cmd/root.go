package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitesmith",
	Short: "Prompt-to-website generator with a live editor",
	Long: `Sitesmith turns a plain-language prompt into a small static website
(index.html, styles.css, script.js) and serves a local editor where you can
refine the files with live preview, automatic saving, and one-click
deployment.

Available commands:
  serve     - Start the editor web UI
  generate  - Generate a site from a prompt and write it to disk
  publish   - Deploy a site directory to Netlify, GitHub Pages, or Vercel
  init      - Create the configuration file and store API keys

To get started, try: sitesmith serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(initCmd)
}
