package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitesmith/sitesmith/pkg/changetracker"
	"github.com/sitesmith/sitesmith/pkg/configuration"
	"github.com/sitesmith/sitesmith/pkg/generation"
	"github.com/sitesmith/sitesmith/pkg/history"
	"github.com/sitesmith/sitesmith/pkg/utils"
	"github.com/sitesmith/sitesmith/pkg/webui"
	"github.com/sitesmith/sitesmith/pkg/workspace"
)

var (
	servePort     int
	serveProvider string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor web UI",
	Long: `Starts the local web server hosting the Sitesmith editor: prompt box,
file tabs, live preview, automatic saving, and deploy buttons. The server
binds to localhost only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, keys, err := loadConfigAndKeys()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if serveProvider != "" {
			cfg.Provider = serveProvider
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		generator, err := buildGenerator(cfg, keys)
		if err != nil {
			return err
		}

		ws := workspace.Seed()
		delay := time.Duration(cfg.AutoSaveDelayMs) * time.Millisecond
		tracker := changetracker.New(ws, delay)
		orchestrator := generation.NewOrchestrator(generator)

		historyPath, err := configuration.GetHistoryPath()
		if err != nil {
			return err
		}
		prompts := history.Load(historyPath)

		if !webui.CheckPortAvailable(cfg.Port) {
			cfg.Port = webui.FindAvailablePort(cfg.Port)
		}

		server := webui.NewWorkspaceServer(cfg, keys, ws, tracker, orchestrator, prompts, utils.GetLogger())

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := server.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("Sitesmith editor running at http://localhost:%d (Ctrl+C to stop)\n", server.GetPort())

		<-ctx.Done()
		fmt.Println("\nShutting down...")
		return server.Shutdown()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "Generation provider: gemini or ollama")
}
