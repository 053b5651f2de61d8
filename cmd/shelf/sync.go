package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/cache"
	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/sheets"
)

// syncPageSize is the page size used when pulling the full library.
const syncPageSize = 200

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the remote library into the local snapshot",
	Long: `Download every item from the backend, replace the local snapshot,
and rebuild the search index. The remote datastore stays authoritative;
sync never pushes local edits.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := mustBackendClient(cfg)

	var items []library.Item
	for page := 1; ; page++ {
		res, err := client.List(cmd.Context(), sheets.ListParams{
			Page:  page,
			Limit: syncPageSize,
		})
		if err != nil {
			exitListError(err)
		}
		items = append(items, res.Items...)
		if len(res.Items) < syncPageSize || len(items) >= res.TotalCount {
			break
		}
	}

	mustSaveSnapshot(items)

	db, err := cache.OpenDB(config.DBPath())
	if err != nil {
		exitWithError(ExitDataError, "opening search index: %v", err)
	}
	defer db.Close()
	if _, err := db.Rebuild(items); err != nil {
		exitWithError(ExitDataError, "rebuilding search index: %v", err)
	}

	// The reported count comes from the rebuilt index.
	indexed, err := db.Count()
	if err != nil {
		exitWithError(ExitDataError, "verifying search index: %v", err)
	}

	if humanOutput {
		fmt.Printf("synced %d items to %s\n", indexed, config.LibraryPath())
		return nil
	}
	return outputJSON(StatusResponse{
		Status:  "ok",
		Message: fmt.Sprintf("synced %d items", indexed),
	})
}
