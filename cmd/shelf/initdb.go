package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initDBCmd)
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the backend spreadsheet schema",
	Long: `Ask the backend to create its spreadsheet structure: the library
sheet with all item columns. Safe to run on an already-initialized
backend.`,
	RunE: runInitDB,
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := mustBackendClient(cfg)

	if err := client.SetupDatabase(cmd.Context()); err != nil {
		exitWithError(ExitError, "initializing backend: %v", err)
	}

	if humanOutput {
		fmt.Println("backend initialized")
		return nil
	}
	return outputJSON(StatusResponse{Status: "ok", Message: "backend initialized"})
}
