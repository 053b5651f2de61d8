package main

import (
	"github.com/spf13/cobra"
)

var getChunks bool

func init() {
	getCmd.Flags().BoolVar(&getChunks, "chunks", false, "Include extracted text chunks")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one item from the local library",
	Long: `Show one item by id or unambiguous id prefix.

Reads the local snapshot; run 'shelf sync' first if the library changed
remotely.

Examples:
  shelf get 9f3a2b1c
  shelf get 9f3a2b1c --chunks`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	items := mustLoadSnapshot()
	it := mustResolveItem(items, args[0])

	if !getChunks {
		it.Chunks = nil
	}

	if humanOutput {
		printItemDetail(it)
		return nil
	}
	return outputJSON(it)
}
