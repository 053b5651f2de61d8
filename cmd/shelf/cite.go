package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/clipboard"
	"github.com/xeenaps/shelf/internal/library"
)

var citeFlags struct {
	style  string
	inText bool
	copy   bool
}

func init() {
	f := citeCmd.Flags()
	f.StringVar(&citeFlags.style, "style", "apa", "Citation style (apa, harvard, chicago)")
	f.BoolVar(&citeFlags.inText, "in-text", false, "In-text citation instead of bibliography entry")
	f.BoolVar(&citeFlags.copy, "copy", false, "Copy the citation to the clipboard")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <id>",
	Short: "Print a stored citation for an item",
	Long: `Print one of the item's stored citations. Citations are generated
during capture; items added without AI analysis may not carry them.

Examples:
  shelf cite 9f3a2b1c
  shelf cite 9f3a2b1c --style chicago --in-text
  shelf cite 9f3a2b1c --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	it := mustResolveItem(mustLoadSnapshot(), args[0])

	citation := pickCitation(it.Citations, citeFlags.style, citeFlags.inText)
	if citation == "" {
		exitWithError(ExitNotFound, "item has no %s citation stored", citeFlags.style)
	}

	if citeFlags.copy {
		if err := clipboard.Copy(citation); err != nil {
			exitWithError(ExitError, "copying citation: %v", err)
		}
		if humanOutput {
			fmt.Println("copied to clipboard")
		}
	}

	if humanOutput {
		fmt.Println(citation)
		return nil
	}
	return outputJSON(map[string]string{
		"id":       it.ID,
		"style":    citeFlags.style,
		"citation": citation,
	})
}

func pickCitation(c library.Citations, style string, inText bool) string {
	switch style {
	case "apa":
		if inText {
			return c.InTextAPA
		}
		return c.BibAPA
	case "harvard":
		if inText {
			return c.InTextHarvard
		}
		return c.BibHarvard
	case "chicago":
		if inText {
			return c.InTextChicago
		}
		return c.BibChicago
	default:
		exitWithError(ExitError, "unknown citation style %q (apa, harvard, chicago)", style)
		return ""
	}
}
