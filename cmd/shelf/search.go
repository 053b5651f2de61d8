package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/cache"
	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/library"
)

var searchFlags struct {
	limit      int
	title      string
	author     string
	itemType   string
	category   string
	topic      string
	year       string
	favorite   bool
	bookmarked bool
}

func init() {
	f := searchCmd.Flags()
	f.IntVar(&searchFlags.limit, "limit", DefaultListLimit, "Maximum results")
	f.StringVar(&searchFlags.title, "title", "", "Search in titles only")
	f.StringVar(&searchFlags.author, "author", "", "Filter by author (prefix match)")
	f.StringVar(&searchFlags.itemType, "type", "", "Filter by item type")
	f.StringVar(&searchFlags.category, "category", "", "Filter by category")
	f.StringVar(&searchFlags.topic, "topic", "", "Filter by topic")
	f.StringVar(&searchFlags.year, "year", "", "Filter by year")
	f.BoolVar(&searchFlags.favorite, "favorites", false, "Only favorites")
	f.BoolVar(&searchFlags.bookmarked, "bookmarks", false, "Only bookmarks")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over the local library",
	Long: `Search the local library snapshot: titles, authors, tags,
abstracts, and extracted document text. The index is rebuilt from the
snapshot on each run; run 'shelf sync' first to pick up remote changes.

Examples:
  shelf search transformers
  shelf search --author Vaswani --year 2017
  shelf search "gradient descent" --type Literature --favorites`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := cache.Filters{
		Title:      searchFlags.title,
		Author:     searchFlags.author,
		Type:       searchFlags.itemType,
		Category:   searchFlags.category,
		Topic:      searchFlags.topic,
		Year:       searchFlags.year,
		Favorite:   searchFlags.favorite,
		Bookmarked: searchFlags.bookmarked,
	}
	if len(args) == 1 {
		filters.Keyword = strings.TrimSpace(args[0])
	}
	if filters == (cache.Filters{}) {
		exitWithError(ExitError, "give a query or at least one filter flag")
	}

	db, err := cache.OpenDB(config.DBPath())
	if err != nil {
		exitWithError(ExitDataError, "opening search index: %v", err)
	}
	defer db.Close()

	if _, err := db.RebuildFromJSONL(config.LibraryPath()); err != nil {
		exitWithError(ExitDataError, "indexing library: %v", err)
	}

	// A bare query skips the filter machinery entirely.
	var items []library.Item
	if filters == (cache.Filters{Keyword: filters.Keyword}) {
		items, err = db.Search(filters.Keyword, searchFlags.limit)
	} else {
		items, err = db.SearchWithFilters(filters, searchFlags.limit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(items) == 0 {
			fmt.Println("No matches")
			return nil
		}
		renderItemTable(items)
		return nil
	}
	if items == nil {
		items = []library.Item{}
	}
	return outputJSON(items)
}
