// Package export renders library items to interchange formats.
package export

import (
	"fmt"
	"strings"

	"github.com/xeenaps/shelf/internal/library"
)

// ToBibTeX converts an item to a BibTeX entry.
func ToBibTeX(it library.Item) string {
	entryType := determineEntryType(it)
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, CiteKey(it))

	if len(it.AuthorList) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(it.AuthorList, " and "))
	}
	if it.Title != "" {
		fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(it.Title))
	}
	if it.Publisher != "" {
		fieldName := "publisher"
		if entryType == "article" {
			fieldName = "journal"
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", fieldName, escapeLatex(it.Publisher))
	}
	if it.Year != "" {
		fmt.Fprintf(&b, "  year = {%s},\n", it.Year)
	}
	if it.Identifiers.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", it.Identifiers.DOI)
	}
	if it.Identifiers.ISBN != "" {
		fmt.Fprintf(&b, "  isbn = {%s},\n", it.Identifiers.ISBN)
	}
	if it.Identifiers.ArXivID != "" {
		fmt.Fprintf(&b, "  eprint = {%s},\n", it.Identifiers.ArXivID)
		b.WriteString("  archiveprefix = {arXiv},\n")
	}
	if it.URL != "" && entryType == "misc" {
		fmt.Fprintf(&b, "  howpublished = {\\url{%s}},\n", it.URL)
	}
	if len(it.Keywords) > 0 {
		fmt.Fprintf(&b, "  keywords = {%s},\n", escapeLatex(strings.Join(it.Keywords, ", ")))
	}
	if it.Abstract != "" {
		fmt.Fprintf(&b, "  abstract = {%s},\n", escapeLatex(it.Abstract))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple items, separated by blank lines.
func ToBibTeXList(items []library.Item) string {
	var entries []string
	for _, it := range items {
		entries = append(entries, ToBibTeX(it))
	}
	return strings.Join(entries, "\n")
}

// CiteKey derives a stable citation key: first author's last name plus year,
// with an id prefix to keep keys unique across a large library.
func CiteKey(it library.Item) string {
	name := "anonymous"
	if len(it.AuthorList) > 0 {
		parts := strings.Fields(it.AuthorList[0])
		if len(parts) > 0 {
			name = sanitizeKeyPart(parts[len(parts)-1])
		}
	}
	year := it.Year
	if year == "" {
		year = "nd"
	}
	suffix := it.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s%s-%s", name, year, suffix)
}

func sanitizeKeyPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "anonymous"
	}
	return b.String()
}

// determineEntryType maps an item to a BibTeX entry type.
func determineEntryType(it library.Item) string {
	switch it.Source {
	case library.SourceBook:
		return "book"
	case library.SourceVideo:
		return "misc"
	}
	if it.Identifiers.ISBN != "" {
		return "book"
	}
	if it.Identifiers.DOI != "" || it.Identifiers.ArXivID != "" || it.Publisher != "" {
		return "article"
	}
	if it.URL != "" {
		return "misc"
	}
	return "article"
}

// escapeLatex escapes special LaTeX characters.
// Order matters: & must be first so later escapes are not re-escaped.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
