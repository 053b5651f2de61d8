package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/sheets"
)

var listFlags struct {
	page       int
	limit      int
	search     string
	itemType   string
	sortBy     string
	sortOrder  string
	favorite   bool
	bookmarked bool
	cached     bool
}

func init() {
	f := listCmd.Flags()
	f.IntVar(&listFlags.page, "page", 1, "Page number")
	f.IntVar(&listFlags.limit, "limit", DefaultListLimit, "Items per page")
	f.StringVar(&listFlags.search, "search", "", "Search term applied remotely")
	f.StringVar(&listFlags.itemType, "type", "", "Filter by item type (Literature, Task, Personal, Other)")
	f.StringVar(&listFlags.sortBy, "sort", "createdAt", "Sort field (createdAt, title, year)")
	f.StringVar(&listFlags.sortOrder, "order", "desc", "Sort order (asc, desc)")
	f.BoolVar(&listFlags.favorite, "favorites", false, "Only favorites")
	f.BoolVar(&listFlags.bookmarked, "bookmarks", false, "Only bookmarks")
	f.BoolVar(&listFlags.cached, "cached", false, "List from the local snapshot instead of the backend")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List library items from the backend",
	Long: `List library items, paged and sorted by the backend.

Examples:
  shelf list
  shelf list --type Literature --sort year --order asc
  shelf list --search transformers --favorites --human`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var page sheets.PagedItems

	if listFlags.cached {
		page = listFromSnapshot()
	} else {
		cfg := mustLoadConfig()
		client := mustBackendClient(cfg)

		remote, err := client.List(cmd.Context(), sheets.ListParams{
			Page:         listFlags.page,
			Limit:        listFlags.limit,
			Search:       listFlags.search,
			Type:         listFlags.itemType,
			SortBy:       listFlags.sortBy,
			SortOrder:    listFlags.sortOrder,
			IsFavorite:   listFlags.favorite,
			IsBookmarked: listFlags.bookmarked,
		})
		if err != nil {
			exitListError(err)
		}
		page = *remote
	}

	if humanOutput {
		if len(page.Items) == 0 {
			fmt.Println("No items")
			return nil
		}
		renderItemTable(page.Items)
		fmt.Printf("page %d, %d of %d items\n", listFlags.page, len(page.Items), page.TotalCount)
		return nil
	}

	if page.Items == nil {
		page.Items = []library.Item{}
	}
	return outputJSON(page)
}

// listFromSnapshot pages through the local snapshot with the same flags
// the backend listing accepts. Search is a case-insensitive substring
// match over title, authors, and tags.
func listFromSnapshot() sheets.PagedItems {
	items := mustLoadSnapshot()

	term := strings.ToLower(listFlags.search)
	filtered := make([]library.Item, 0, len(items))
	for _, it := range items {
		if listFlags.itemType != "" && string(it.Type) != listFlags.itemType {
			continue
		}
		if listFlags.favorite && !it.IsFavorite {
			continue
		}
		if listFlags.bookmarked && !it.IsBookmarked {
			continue
		}
		if term != "" && !matchesTerm(it, term) {
			continue
		}
		filtered = append(filtered, it)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		var less bool
		switch listFlags.sortBy {
		case "title":
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "year":
			less = a.Year < b.Year
		default:
			// RFC 3339 timestamps order lexically.
			less = a.CreatedAt < b.CreatedAt
		}
		if listFlags.sortOrder == "desc" {
			return !less
		}
		return less
	})

	total := len(filtered)
	start := (listFlags.page - 1) * listFlags.limit
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + listFlags.limit
	if end > total {
		end = total
	}

	return sheets.PagedItems{Items: filtered[start:end], TotalCount: total}
}

func matchesTerm(it library.Item, term string) bool {
	if strings.Contains(strings.ToLower(it.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(it.Authors), term) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func exitListError(err error) {
	if sheets.IsNotConfigured(err) {
		exitWithError(ExitConfigError, "no backend configured: %v", err)
	}
	exitWithError(ExitError, "listing items: %v", err)
}
