package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/optimistic"
)

var flagRemove bool

func init() {
	favoriteCmd.Flags().BoolVar(&flagRemove, "remove", false, "Clear the flag instead of toggling")
	bookmarkCmd.Flags().BoolVar(&flagRemove, "remove", false, "Clear the flag instead of toggling")
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>...",
	Short: "Toggle the favorite flag on items",
	Long: `Toggle the favorite flag. The local snapshot updates immediately;
if the remote save fails the snapshot is rolled back untouched.

Examples:
  shelf favorite 9f3a2b1c
  shelf favorite 9f3a2b1c 41d0e55a
  shelf favorite --remove 9f3a2b1c`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, func(it *library.Item) {
			if flagRemove {
				it.IsFavorite = false
				return
			}
			it.IsFavorite = !it.IsFavorite
		})
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <id>...",
	Short: "Toggle the bookmark flag on items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, func(it *library.Item) {
			if flagRemove {
				it.IsBookmarked = false
				return
			}
			it.IsBookmarked = !it.IsBookmarked
		})
	},
}

// runToggle applies an in-place edit to each named item through the
// optimistic engine.
func runToggle(cmd *cobra.Command, args []string, toggle func(*library.Item)) error {
	cfg := mustLoadConfig()
	client := mustBackendClient(cfg)

	view := &snapshotView{items: mustLoadSnapshot()}

	var batch []library.Item
	for _, idArg := range args {
		it := mustResolveItem(view.items, idArg)
		toggle(&it)
		batch = append(batch, it)
	}

	persistFailed := false
	engine := optimistic.New(view,
		func(ctx context.Context, it library.Item) error {
			return client.Save(ctx, it, nil)
		},
		nil,
		func(err error) {
			persistFailed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "error: saving edit: %v (local library restored)\n", err)
		},
	)
	engine.Update(cmd.Context(), batch)

	if persistFailed {
		exitWithError(ExitError, "edit not persisted; local library unchanged")
	}

	if humanOutput {
		renderItemTable(batch)
		return nil
	}
	return outputJSON(batch)
}
