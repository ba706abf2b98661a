package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/fieldwise/takeoff/docs/swagger" // registers the OpenAPI spec

	"github.com/fieldwise/takeoff/internal/config"
	"github.com/fieldwise/takeoff/internal/providers"
	"github.com/fieldwise/takeoff/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the takeoff server",
	Long: `Start the takeoff HTTP server.

The server provides:
  - /health                  - Server health check
  - /status                  - Detailed status with resolved thresholds
  - /api/drawings/analyze    - Analyze one drawing set
  - /api/drawings/batch      - Analyze several drawing sets
  - /api/drawings/summarize  - Model review of a finished analysis
  - /swagger.json            - OpenAPI spec

Configuration hot-reloads: edits to config.yaml take effect without a restart.

Examples:
  takeoff serve                    # Start on default port 8080
  takeoff serve --port 3000        # Start on custom port
  takeoff serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()
		cfg := mgr.Get()

		var summarizer providers.Summarizer
		if cfg.Summary.Enabled {
			summarizer = providers.NewOpenAIClient(providers.OpenAIConfig{
				APIKey:    cfg.ResolveSummaryAPIKey(),
				Model:     cfg.Summary.Model,
				MaxTokens: cfg.Summary.MaxTokens,
				BaseURL:   cfg.Summary.BaseURL,
			})
			logger.Info("takeoff summaries enabled", "model", cfg.Summary.Model)
		}

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Summarizer:    summarizer,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
