// Package extract runs the staged capture pipeline that turns a URL, an
// uploaded file, or a bare identifier into a draft library item. Reading,
// identifier resolution, and AI analysis are injected capabilities so the
// pipeline itself stays testable offline.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeenaps/shelf/internal/enrich"
	"github.com/xeenaps/shelf/internal/identifier"
	"github.com/xeenaps/shelf/internal/library"
)

// Stage is the user-visible phase of a capture run.
type Stage string

// Pipeline stages. A run always ends back at StageIdle, success or not.
const (
	StageIdle       Stage = "IDLE"
	StageReading    Stage = "READING"
	StageFetchingID Stage = "FETCHING_ID"
	StageAnalysis   Stage = "AI_ANALYSIS"

	// StageBypass is reserved for captures that arrive with text already
	// extracted and skip the read phase. No input kind emits it yet.
	StageBypass Stage = "BYPASS"
)

// Capture is the raw result of reading a source, before resolution and
// analysis. Patch carries whatever metadata the reader itself established.
type Capture struct {
	Title      string
	Text       string
	Chunks     []string
	FileID     string
	Identifier string
	Patch      library.Patch
}

// SourceReader captures raw text and chunks from a URL or file.
type SourceReader interface {
	ReadURL(ctx context.Context, url string) (Capture, error)
	ReadFile(ctx context.Context, name string, data []byte, mimeType string) (Capture, error)
}

// Resolver turns a bibliographic identifier into a metadata patch.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (library.Patch, error)
}

// MetadataEnricher fills empty fields of a known patch from source text.
type MetadataEnricher interface {
	Extract(ctx context.Context, snippet string, known library.Patch) library.Patch
}

// ErrIdentifierNotFound is returned when a reference lookup yields nothing.
var ErrIdentifierNotFound = errors.New("identifier not found")

// Input describes one capture request.
type Input struct {
	Kind library.AddMethod

	// LINK
	URL string

	// FILE
	FileName string
	FileData []byte
	MimeType string

	// Optional hints from a local scan of the file. The identifier hint
	// wins over anything the reader reports; the title hint is a
	// fallback when the reader has none.
	TitleHint      string
	IdentifierHint string

	// REF
	Ref string
}

// Workflow is the capture pipeline. Zero-value callbacks are allowed; nil
// Reader, Resolver, or Enricher disables the corresponding stage.
type Workflow struct {
	Reader   SourceReader
	Resolver Resolver
	Enricher MetadataEnricher

	// OnStage is called on every stage transition, including the final
	// return to StageIdle.
	OnStage func(Stage)

	// OnAlert reports non-fatal conditions, such as a failed identifier
	// lookup that the pipeline continues past.
	OnAlert func(msg string)
}

// Run executes the pipeline for one input and returns an unsaved draft
// item. Read failures abort the run with nothing retained; lookup failures
// on LINK and FILE inputs only raise an alert. The pipeline ends at
// StageIdle in all cases.
func (w *Workflow) Run(ctx context.Context, in Input) (library.Item, error) {
	defer w.setStage(StageIdle)

	switch in.Kind {
	case library.AddLink:
		return w.runLink(ctx, in)
	case library.AddFile:
		return w.runFile(ctx, in)
	case library.AddRef:
		return w.runRef(ctx, in)
	default:
		return library.Item{}, fmt.Errorf("unknown capture kind %q", in.Kind)
	}
}

func (w *Workflow) runLink(ctx context.Context, in Input) (library.Item, error) {
	if w.Reader == nil {
		return library.Item{}, errors.New("no source reader configured")
	}
	w.setStage(StageReading)
	cap, err := w.Reader.ReadURL(ctx, in.URL)
	if err != nil {
		return library.Item{}, fmt.Errorf("reading %s: %w", in.URL, err)
	}

	// Identifier baked into the URL beats one sniffed from page text.
	raw := cap.Identifier
	if _, fromURL := identifier.DetectInURL(in.URL); fromURL != "" {
		raw = fromURL
	}
	if raw == "" {
		raw = identifier.FindDOI(cap.Text)
	}
	known := w.resolveSoft(ctx, raw, cap.Patch)

	final := w.analyze(ctx, cap, known)

	// Lookup results can carry document metadata (a DOI in a video
	// description resolves to the cited paper); for video captures the
	// platform rules override whatever won the merge.
	video := enrich.IsVideoSource(cap.Text)
	if video {
		final = enrich.ApplyVideoRules(final)
	}

	it := w.buildItem(in, cap, final)
	it.Source = library.SourceLink
	it.Format = library.FormatURL
	if video {
		it.Source = library.SourceVideo
	}
	it.URL = in.URL
	it.Normalize()
	return it, nil
}

func (w *Workflow) runFile(ctx context.Context, in Input) (library.Item, error) {
	if w.Reader == nil {
		return library.Item{}, errors.New("no source reader configured")
	}
	w.setStage(StageReading)
	cap, err := w.Reader.ReadFile(ctx, in.FileName, in.FileData, in.MimeType)
	if err != nil {
		return library.Item{}, fmt.Errorf("reading %s: %w", in.FileName, err)
	}

	raw := in.IdentifierHint
	if raw == "" {
		raw = cap.Identifier
	}
	if raw == "" {
		raw = identifier.FindDOI(cap.Text)
	}
	known := w.resolveSoft(ctx, raw, cap.Patch)

	final := w.analyze(ctx, cap, known)

	it := w.buildItem(in, cap, final)
	it.Source = library.SourceFile
	it.Format = library.FormatForExtension(filepath.Ext(in.FileName))
	it.FileID = cap.FileID
	if it.Title == "" {
		it.Title = in.TitleHint
	}
	if it.Title == "" {
		it.Title = strings.TrimSuffix(in.FileName, filepath.Ext(in.FileName))
	}
	it.Normalize()
	return it, nil
}

// runRef resolves a bare identifier. There is no source text, so the AI
// stage is skipped entirely.
func (w *Workflow) runRef(ctx context.Context, in Input) (library.Item, error) {
	if w.Resolver == nil {
		return library.Item{}, errors.New("no resolver configured")
	}
	kind, normalized := identifier.Classify(in.Ref)
	if kind == identifier.KindUnknown {
		return library.Item{}, fmt.Errorf("unrecognized identifier %q", in.Ref)
	}

	w.setStage(StageFetchingID)
	patch, err := w.Resolver.Resolve(ctx, normalized)
	if err != nil {
		return library.Item{}, fmt.Errorf("looking up %s: %w", normalized, err)
	}
	if patch.IsZero() {
		return library.Item{}, fmt.Errorf("%w: %s", ErrIdentifierNotFound, normalized)
	}

	it := library.NewItem()
	it.AddMethod = library.AddRef
	it.Source = library.SourceBook
	if kind != identifier.KindISBN {
		it.Source = library.SourceNote
	}
	patch.Apply(&it)
	it.Normalize()
	return it, nil
}

// resolveSoft attempts a metadata lookup for raw and merges the result over
// reader-established fields. Failures alert and fall back to the reader
// patch; a missing identifier skips the stage.
func (w *Workflow) resolveSoft(ctx context.Context, raw string, base library.Patch) library.Patch {
	if raw == "" || w.Resolver == nil {
		return base
	}
	w.setStage(StageFetchingID)
	patch, err := w.Resolver.Resolve(ctx, raw)
	if err != nil {
		w.alert(fmt.Sprintf("identifier lookup failed for %s: %v", raw, err))
		return base
	}
	return patch.Overlay(base)
}

// analyze runs the AI stage. Enrichment is best-effort: with no enricher or
// no text the known patch passes through unchanged.
func (w *Workflow) analyze(ctx context.Context, cap Capture, known library.Patch) library.Patch {
	if w.Enricher == nil || strings.TrimSpace(cap.Text) == "" {
		return known
	}
	w.setStage(StageAnalysis)
	return w.Enricher.Extract(ctx, enrich.Truncate(cap.Text, enrich.MaxSnippetLen), known)
}

func (w *Workflow) buildItem(in Input, cap Capture, patch library.Patch) library.Item {
	it := library.NewItem()
	it.AddMethod = in.Kind
	it.Title = cap.Title
	it.Chunks = cap.Chunks
	if len(it.Chunks) == 0 && cap.Text != "" {
		it.Chunks = library.SplitChunks(cap.Text)
	}
	patch.Apply(&it)
	return it
}

func (w *Workflow) setStage(s Stage) {
	if w.OnStage != nil {
		w.OnStage(s)
	}
}

func (w *Workflow) alert(msg string) {
	if w.OnAlert != nil {
		w.OnAlert(msg)
	}
}
