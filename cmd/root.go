package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nightmare-tech/chatty-insurance/internal/api"
	"github.com/nightmare-tech/chatty-insurance/internal/config"
	"github.com/nightmare-tech/chatty-insurance/internal/display"
	"github.com/nightmare-tech/chatty-insurance/internal/logging"
)

// App holds the application state
type App struct {
	cfg     *config.Config
	backend api.Backend
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "clausecompass",
		Short: "Interactive CLI for the ClauseCompass decision engine",
		Long: `ClauseCompass is an interactive command-line client for the ClauseCompass
decision-engine API, a RAG system for querying insurance and contract
documents.

Two operating modes are available:
  persistent  query the pre-loaded server knowledge base
  temporary   upload your own documents for a one-time query

Set CLAUSECOMPASS_API_URL to point at the backend (default: http://localhost:8000).

Examples:
  clausecompass
  clausecompass -r                      # Render responses with formatting
  clausecompass --base-url http://api.internal:8000`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	rootCmd.Flags().BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging (includes HTTP traffic, credentials redacted)")
	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render responses with colors and formatting")
	rootCmd.Flags().StringVar(&app.cfg.BaseURL, "base-url", "", "Decision-engine base URL (overrides CLAUSECOMPASS_API_URL)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) run(cmd *cobra.Command, args []string) {
	// Validate config (loads .env, config file, environment)
	if err := app.cfg.Validate(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	if app.cfg.Verbose {
		logging.SetLevel(logging.LevelDebug)
		logging.Debug("Configuration loaded", logging.Fields{
			"base_url": app.cfg.BaseURL,
			"render":   app.cfg.Render,
		})
	}

	// Initialize markdown renderer if render flag is set
	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			logging.Warn("Failed to initialize renderer", logging.Fields{"error": err.Error()})
		}
	}

	app.backend = api.NewClient(app.cfg)

	app.runInteractive()
}
