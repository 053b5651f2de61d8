package main

import (
	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/pdf"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open an item's source in a local viewer",
	Long: `Open the item's URL in the default browser. Items captured from
files have their document stored remotely and carry no local path, so only
URL-backed items can be opened.

Examples:
  shelf open 9f3a2b1c`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	it := mustResolveItem(mustLoadSnapshot(), args[0])

	if it.URL == "" {
		exitWithError(ExitNotFound, "item %s has no URL to open", shortID(it.ID))
	}

	opener := pdf.NewOpener(cfg.Viewer)
	if err := opener.OpenURL(it.URL); err != nil {
		exitWithError(ExitError, "opening %s: %v", it.URL, err)
	}
	return nil
}
