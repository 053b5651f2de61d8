package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/export"
	"github.com/xeenaps/shelf/internal/library"
)

var (
	exportOutput string
	exportFormat string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportFormat, "format", "bibtex", "Export format (bibtex)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [id]...",
	Short: "Export items as BibTeX",
	Long: `Export items as BibTeX entries. With no arguments the whole local
library is exported.

Examples:
  shelf export
  shelf export 9f3a2b1c 41d0e55a -o refs.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "bibtex" {
		exitWithError(ExitError, "unsupported export format %q", exportFormat)
	}

	items := mustLoadSnapshot()

	selected := items
	if len(args) > 0 {
		selected = make([]library.Item, 0, len(args))
		for _, idArg := range args {
			selected = append(selected, mustResolveItem(items, idArg))
		}
	}

	bib := export.ToBibTeXList(selected)

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, []byte(bib), 0o644); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportOutput, err)
		}
		if humanOutput {
			fmt.Printf("wrote %d entries to %s\n", len(selected), exportOutput)
		} else {
			outputJSON(StatusResponse{
				Status:  "ok",
				Message: fmt.Sprintf("wrote %d entries to %s", len(selected), exportOutput),
			})
		}
		return nil
	}

	fmt.Print(bib)
	return nil
}
