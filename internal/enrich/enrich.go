// Package enrich fills empty metadata fields from a text snippet via an AI
// proxy. The proxy is an injected function; this package owns prompt
// construction, response cleanup, and the merge rules that keep known-good
// metadata authoritative over model output.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeenaps/shelf/internal/library"
)

const (
	// MaxSnippetLen bounds the text sent to the model. Slightly above the
	// nominal window to cope with noisy raw HTML in scraped text.
	MaxSnippetLen = 8500

	// KeywordCount is the fixed number of keywords requested.
	KeywordCount = 5

	// LabelCount is the fixed number of thematic labels requested.
	LabelCount = 3

	// DefaultProvider is the provider used for metadata analysis.
	DefaultProvider = "groq"
)

// VideoSentinel marks extracted text as video-platform content. The backend
// scraper plants it when a watch page rather than a document was captured.
const VideoSentinel = "[[VIDEO_SOURCE]]"

// Video-platform constants applied when the sentinel is present.
const (
	VideoCategory  = "Video Content"
	VideoPublisher = "YouTube"
)

// ProxyFunc forwards a prompt to an AI provider and returns raw text.
type ProxyFunc func(ctx context.Context, provider, model, prompt string) (string, error)

// Enricher extracts metadata from text snippets.
type Enricher struct {
	proxy    ProxyFunc
	provider string
	model    string
}

// New creates an Enricher around the given proxy function.
func New(proxy ProxyFunc) *Enricher {
	return &Enricher{proxy: proxy, provider: DefaultProvider}
}

// WithProvider overrides the AI provider for subsequent calls.
func (e *Enricher) WithProvider(provider, model string) *Enricher {
	e.provider = provider
	e.model = model
	return e
}

// Extract analyzes a snippet and returns a metadata patch with every known
// non-empty field re-applied over the model output, so the model can never
// clobber authoritative data. A failed or malformed model response yields
// the known patch unchanged; Extract never returns an error for that.
func (e *Enricher) Extract(ctx context.Context, snippet string, known library.Patch) library.Patch {
	if strings.TrimSpace(snippet) == "" {
		return known
	}

	video := IsVideoSource(snippet)

	var prompt string
	if video {
		prompt = buildVideoPrompt(Truncate(snippet, MaxSnippetLen))
	} else {
		prompt = buildLibrarianPrompt(Truncate(snippet, MaxSnippetLen))
	}

	response, err := e.proxy(ctx, e.provider, e.model, prompt)
	if err != nil || response == "" {
		return finishPatch(known, video)
	}

	ai, err := ParseResponse(response)
	if err != nil {
		return finishPatch(known, video)
	}

	// Known fields win; the model only fills gaps.
	return finishPatch(known.Overlay(ai), video)
}

// finishPatch applies the video rules to the merged result, so lookup or
// scraper metadata cannot reintroduce document fields on a video capture.
func finishPatch(p library.Patch, video bool) library.Patch {
	if video {
		return ApplyVideoRules(p)
	}
	return p
}

// IsVideoSource reports whether extracted text carries the video sentinel.
func IsVideoSource(text string) bool {
	return strings.Contains(text, VideoSentinel)
}

// ApplyVideoRules fixes the platform constants on a patch and suppresses
// citations, which are not meaningful for video sources. At most one
// author survives: the uploader.
func ApplyVideoRules(p library.Patch) library.Patch {
	p.Category = VideoCategory
	p.Publisher = VideoPublisher
	if len(p.Authors) > 1 {
		p.Authors = p.Authors[:1]
	}
	p.Citations = library.Citations{}
	return p
}

// Truncate safely truncates text to maxLen bytes without splitting a
// multi-byte UTF-8 character.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	validLen := maxLen
	for validLen > 0 && text[validLen]&0xC0 == 0x80 {
		validLen--
	}
	return text[:validLen]
}

// ParseResponse extracts the JSON object from a raw model response and
// decodes it into a sanitized patch. Surrounding prose and markdown fences
// are stripped by trimming to the outermost braces.
func ParseResponse(response string) (library.Patch, error) {
	clean := strings.TrimSpace(response)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return library.Patch{}, fmt.Errorf("no JSON object in response")
	}
	clean = clean[start : end+1]

	var raw rawPatch
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return library.Patch{}, fmt.Errorf("parsing model JSON: %w", err)
	}
	return sanitize(raw), nil
}

// rawPatch mirrors the loosely-typed JSON the model returns. Unknown fields
// are dropped by the decoder; listed fields are validated in sanitize.
type rawPatch struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Topic     string   `json:"topic"`
	SubTopic  string   `json:"subTopic"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Year      string   `json:"year"`
	Keywords  []string `json:"keywords"`
	Labels    []string `json:"labels"`
	Abstract  string   `json:"abstract"`

	InTextAPA     string `json:"inTextAPA"`
	InTextHarvard string `json:"inTextHarvard"`
	InTextChicago string `json:"inTextChicago"`
	BibAPA        string `json:"bibAPA"`
	BibHarvard    string `json:"bibHarvard"`
	BibChicago    string `json:"bibChicago"`
}

// sanitize converts raw model output to a domain patch, dropping blank
// entries and enforcing list cardinality. Identifier fields are never taken
// from the model: those come only from extraction or lookup.
func sanitize(raw rawPatch) library.Patch {
	p := library.Patch{
		Title:     strings.TrimSpace(raw.Title),
		Category:  strings.TrimSpace(raw.Category),
		Topic:     strings.TrimSpace(raw.Topic),
		SubTopic:  strings.TrimSpace(raw.SubTopic),
		Publisher: strings.TrimSpace(raw.Publisher),
		Year:      sanitizeYear(raw.Year),
		Authors:   cleanList(raw.Authors, 0),
		Keywords:  cleanList(raw.Keywords, KeywordCount),
		Labels:    cleanList(raw.Labels, LabelCount),
		Abstract:  strings.TrimSpace(raw.Abstract),
		Citations: library.Citations{
			InTextAPA:     strings.TrimSpace(raw.InTextAPA),
			InTextHarvard: strings.TrimSpace(raw.InTextHarvard),
			InTextChicago: strings.TrimSpace(raw.InTextChicago),
			BibAPA:        strings.TrimSpace(raw.BibAPA),
			BibHarvard:    strings.TrimSpace(raw.BibHarvard),
			BibChicago:    strings.TrimSpace(raw.BibChicago),
		},
	}
	if isValidType(raw.Type) {
		p.Type = raw.Type
	}
	return p
}

func isValidType(t string) bool {
	for _, v := range library.ValidTypes {
		if t == string(v) {
			return true
		}
	}
	return false
}

// cleanList trims entries, drops blanks, and caps the list at max (0 = no cap).
func cleanList(list []string, max int) []string {
	var out []string
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// sanitizeYear keeps only plausible four-digit years.
func sanitizeYear(year string) string {
	year = strings.TrimSpace(year)
	if len(year) != 4 {
		return ""
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}
