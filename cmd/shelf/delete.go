package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/optimistic"
)

var deleteConfirmed bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete items from the library",
	Long: `Delete items remotely and from the local snapshot. Requires --yes.
If any remote delete fails the whole batch is restored locally.

Examples:
  shelf delete 9f3a2b1c --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	if !deleteConfirmed {
		exitWithError(ExitError, "refusing to delete without --yes")
	}

	cfg := mustLoadConfig()
	client := mustBackendClient(cfg)

	view := &snapshotView{items: mustLoadSnapshot()}

	ids := make([]string, 0, len(args))
	for _, idArg := range args {
		ids = append(ids, mustResolveItem(view.items, idArg).ID)
	}

	persistFailed := false
	engine := optimistic.New(view, nil,
		func(ctx context.Context, id string) error {
			return client.Delete(ctx, id)
		},
		func(err error) {
			persistFailed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "error: deleting: %v (local library restored)\n", err)
		},
	)
	engine.Delete(cmd.Context(), ids)

	if persistFailed {
		exitWithError(ExitError, "delete not persisted; local library unchanged")
	}

	if humanOutput {
		fmt.Printf("deleted %d item(s)\n", len(ids))
		return nil
	}
	return outputJSON(StatusResponse{
		Status:  "ok",
		Message: fmt.Sprintf("deleted %d item(s)", len(ids)),
	})
}
