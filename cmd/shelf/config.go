package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			fmt.Printf("config file:  %s\n", config.Path())
			fmt.Printf("backend_url:  %s\n", cfg.BackendURL)
			fmt.Printf("ai_provider:  %s\n", cfg.AIProvider)
			fmt.Printf("ai_model:     %s\n", cfg.AIModel)
			fmt.Printf("viewer:       %s\n", cfg.Viewer)
			fmt.Printf("data_dir:     %s\n", config.DataDir())
			return nil
		}
		return outputJSON(cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Keys: backend_url, ai_provider, ai_model, viewer, data_dir

Examples:
  shelf config set backend_url https://script.google.com/macros/s/XXX/exec
  shelf config set ai_provider groq`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg := mustLoadConfig()
	updated := *cfg
	switch key {
	case "backend_url":
		updated.BackendURL = value
	case "ai_provider":
		updated.AIProvider = value
	case "ai_model":
		updated.AIModel = value
	case "viewer":
		updated.Viewer = value
	case "data_dir":
		updated.DataDir = config.ExpandTilde(value)
	default:
		exitWithError(ExitError, "unknown config key %q", key)
	}

	if err := config.Save(&updated); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
		return nil
	}
	return outputJSON(map[string]string{"status": "ok", "key": key, "value": value})
}
