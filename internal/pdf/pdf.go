// Package pdf reads local PDF files for capture: plain text, a best-effort
// title, and any DOI printed on the opening pages.
package pdf

import (
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/xeenaps/shelf/internal/identifier"
)

// doiSearchPages bounds the DOI scan. Journals print the DOI on the first
// page; three pages covers cover-sheet layouts.
const doiSearchPages = 3

// Text extracts plain text from the first maxPages pages of the file.
// maxPages <= 0 reads the whole document. Pages that fail to decode are
// skipped rather than failing the extraction.
func Text(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return readPages(r, maxPages), nil
}

// TextFromReader extracts text from an in-memory PDF, for captures that
// arrive as uploaded bytes rather than files on disk.
func TextFromReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	return readPages(reader, maxPages), nil
}

// DOI scans the opening pages for a DOI. An absent DOI is not an error.
func DOI(path string) (string, error) {
	text, err := Text(path, doiSearchPages)
	if err != nil {
		return "", err
	}
	return identifier.FindDOI(text), nil
}

// Title guesses the document title: the first substantial line of the first
// page that does not look like a running header.
func Title(path string) (string, error) {
	text, err := Text(path, 1)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line, nil
		}
	}
	return "", nil
}

func readPages(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}
	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// isHeaderLine filters running headers and boilerplate when guessing a title.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "downloaded from") {
		return true
	}
	return false
}
