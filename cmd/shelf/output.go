package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/xeenaps/shelf/internal/library"
)

// Output formatting constants.
const (
	DefaultListLimit = 25 // Default page size for list
	ListTitleMaxLen  = 50 // Title truncation in tables
	AuthorsMaxLen    = 30 // Author truncation in tables
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that report status.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// renderItemTable prints items as a readable table.
func renderItemTable(items []library.Item) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Type", "Authors", "Year", "Flags"})
	for _, it := range items {
		t.AppendRow(table.Row{
			shortID(it.ID),
			truncateString(it.Title, ListTitleMaxLen),
			it.Type,
			truncateString(it.Authors, AuthorsMaxLen),
			it.Year,
			flagString(it),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// printItemDetail prints one item in long form.
func printItemDetail(it library.Item) {
	fmt.Printf("%s\n", it.Title)
	fmt.Printf("  id:        %s\n", it.ID)
	fmt.Printf("  type:      %s\n", it.Type)
	if it.Category != "" {
		fmt.Printf("  category:  %s", it.Category)
		if it.Topic != "" {
			fmt.Printf(" / %s", it.Topic)
			if it.SubTopic != "" {
				fmt.Printf(" / %s", it.SubTopic)
			}
		}
		fmt.Println()
	}
	if it.Authors != "" {
		fmt.Printf("  authors:   %s\n", it.Authors)
	}
	if it.Publisher != "" {
		fmt.Printf("  publisher: %s\n", it.Publisher)
	}
	if it.Year != "" {
		fmt.Printf("  year:      %s\n", it.Year)
	}
	if it.URL != "" {
		fmt.Printf("  url:       %s\n", it.URL)
	}
	if len(it.Tags) > 0 {
		fmt.Printf("  tags:      %s\n", strings.Join(it.Tags, ", "))
	}
	if ids := identifierString(it); ids != "" {
		fmt.Printf("  ids:       %s\n", ids)
	}
	if flags := flagString(it); flags != "" {
		fmt.Printf("  flags:     %s\n", flags)
	}
	if it.Abstract != "" {
		fmt.Printf("\n  %s\n", it.Abstract)
	}
}

func identifierString(it library.Item) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+":"+v)
		}
	}
	add("doi", it.Identifiers.DOI)
	add("isbn", it.Identifiers.ISBN)
	add("issn", it.Identifiers.ISSN)
	add("pmid", it.Identifiers.PMID)
	add("arxiv", it.Identifiers.ArXivID)
	add("bibcode", it.Identifiers.Bibcode)
	return strings.Join(parts, " ")
}

func flagString(it library.Item) string {
	var flags []string
	if it.IsFavorite {
		flags = append(flags, "favorite")
	}
	if it.IsBookmarked {
		flags = append(flags, "bookmark")
	}
	return strings.Join(flags, ",")
}

// shortID returns the first uuid segment, enough to disambiguate in tables.
func shortID(id string) string {
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	return id
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
