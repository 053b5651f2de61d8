package main

import (
	"github.com/spf13/cobra"
)

func init() {
	f := extractCmd.Flags()
	f.StringVar(&addFlags.url, "url", "", "Capture a web page or video URL")
	f.StringVar(&addFlags.file, "file", "", "Capture a local document")
	f.StringVar(&addFlags.ref, "ref", "", "Look up a bibliographic identifier")
	f.BoolVar(&addFlags.offline, "offline", false, "Use local extraction even when a backend is configured")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run capture without saving (debugging)",
	Long: `Run the capture pipeline and print the draft item without
persisting anything. Equivalent to 'add --no-save'.

Examples:
  shelf extract --url https://example.org/article
  shelf extract --file paper.pdf --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addFlags.noSave = true
		return runAdd(cmd, args)
	},
}
