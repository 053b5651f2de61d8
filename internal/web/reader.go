// Package web captures sources locally, without the backend extractor: web
// pages through readability, files through format-specific readers. Used
// when no backend is configured or as an explicit offline mode.
package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/xeenaps/shelf/internal/enrich"
	"github.com/xeenaps/shelf/internal/extract"
	"github.com/xeenaps/shelf/internal/identifier"
	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/pdf"
)

// maxBodySize caps fetched HTML to keep untrusted URLs from exhausting
// memory.
const maxBodySize = 10 * 1024 * 1024

// pdfReadPages bounds local PDF text extraction.
const pdfReadPages = 50

// Reader is a local extract.SourceReader.
type Reader struct {
	httpClient *http.Client
}

// Option configures a Reader.
type Option func(*Reader)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Reader) { r.httpClient = c }
}

// NewReader creates a local source reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadURL fetches a page and extracts its readable article content. Video
// watch pages are not scraped for transcripts locally; the text is marked
// so downstream analysis applies video-platform rules.
func (r *Reader) ReadURL(ctx context.Context, rawURL string) (extract.Capture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return extract.Capture{}, fmt.Errorf("creating request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return extract.Capture{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return extract.Capture{}, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return extract.Capture{}, fmt.Errorf("reading response: %w", err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return extract.Capture{}, fmt.Errorf("parsing url: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return extract.Capture{}, fmt.Errorf("extracting article: %w", err)
	}

	text := article.TextContent
	if isVideoWatchPage(parsed) {
		text = enrich.VideoSentinel + "\n" + text
	}

	cap := extract.Capture{
		Title:  article.Title,
		Text:   text,
		Chunks: library.SplitChunks(text),
	}
	if article.SiteName != "" {
		cap.Patch.Publisher = article.SiteName
	}
	if article.Byline != "" {
		cap.Patch.Authors = []string{article.Byline}
	}
	return cap, nil
}

// ReadFile extracts text from an uploaded document. PDFs are parsed page by
// page; plain-text formats pass through. Binary office formats need the
// backend extractor and are rejected here.
func (r *Reader) ReadFile(ctx context.Context, name string, data []byte, mimeType string) (extract.Capture, error) {
	format := library.FormatForExtension(filepath.Ext(name))

	var text string
	switch format {
	case library.FormatPDF:
		t, err := pdf.TextFromReader(bytes.NewReader(data), int64(len(data)), pdfReadPages)
		if err != nil {
			return extract.Capture{}, fmt.Errorf("reading pdf %s: %w", name, err)
		}
		text = t
	case library.FormatTXT, library.FormatMD, library.FormatCSV:
		text = string(data)
	default:
		return extract.Capture{}, fmt.Errorf("format %s needs the backend extractor", format)
	}

	return extract.Capture{
		Text:       text,
		Chunks:     library.SplitChunks(text),
		Identifier: identifier.FindDOI(text),
	}, nil
}

// isVideoWatchPage recognizes the video platforms the capture pipeline has
// special rules for.
func isVideoWatchPage(u *url.URL) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		return strings.HasPrefix(u.Path, "/watch") || strings.HasPrefix(u.Path, "/shorts")
	case "youtu.be":
		return true
	}
	return false
}

// setBrowserHeaders mimics a desktop browser. Plain Go user agents are
// commonly refused with 403s by article hosts.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
