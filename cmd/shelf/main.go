// Package main provides the shelf CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/sheets"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Optional .env for the backend URL and provider settings.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Personal research library manager",
	Long: `shelf manages a personal research library backed by a spreadsheet
datastore. Items enter by URL, file upload, or bibliographic identifier;
metadata is filled in by identifier lookup and AI analysis.

All commands output JSON by default for easy integration with scripts
and agents. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global config or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newBackendClient builds a backend client from config. Commands that need
// the backend check sheets.IsNotConfigured on first use.
func newBackendClient(cfg *config.Config) *sheets.Client {
	return sheets.NewClient(sheets.WithEndpoint(cfg.BackendURL))
}

// mustBackendClient builds a backend client or exits when no backend URL is
// configured.
func mustBackendClient(cfg *config.Config) *sheets.Client {
	if cfg.BackendURL == "" {
		exitWithError(ExitConfigError,
			"no backend configured: set backend_url in %s or %s in the environment",
			config.Path(), config.EnvBackendURL)
	}
	return newBackendClient(cfg)
}
