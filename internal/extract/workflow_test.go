package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xeenaps/shelf/internal/enrich"
	"github.com/xeenaps/shelf/internal/library"
)

type fakeReader struct {
	capture Capture
	err     error
	lastURL string
}

func (f *fakeReader) ReadURL(ctx context.Context, url string) (Capture, error) {
	f.lastURL = url
	return f.capture, f.err
}

func (f *fakeReader) ReadFile(ctx context.Context, name string, data []byte, mimeType string) (Capture, error) {
	return f.capture, f.err
}

type fakeResolver struct {
	patch   library.Patch
	err     error
	lastRaw string
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, raw string) (library.Patch, error) {
	f.calls++
	f.lastRaw = raw
	return f.patch, f.err
}

type fakeEnricher struct {
	patch library.Patch
	calls int
}

func (f *fakeEnricher) Extract(ctx context.Context, snippet string, known library.Patch) library.Patch {
	f.calls++
	return f.patch.Overlay(known)
}

func TestRunLinkFullPipeline(t *testing.T) {
	reader := &fakeReader{capture: Capture{
		Title: "Attention Is All You Need",
		Text:  "Transcript text mentioning doi 10.48550/arXiv.1706.03762 somewhere",
	}}
	resolver := &fakeResolver{patch: library.Patch{
		Year:        "2017",
		Identifiers: library.Identifiers{DOI: "10.48550/arXiv.1706.03762"},
	}}
	enricher := &fakeEnricher{patch: library.Patch{
		Category: "Computer Science",
		Keywords: []string{"attention", "transformers"},
	}}

	var stages []Stage
	w := &Workflow{
		Reader:   reader,
		Resolver: resolver,
		Enricher: enricher,
		OnStage:  func(s Stage) { stages = append(stages, s) },
	}

	it, err := w.Run(context.Background(), Input{
		Kind: library.AddLink,
		URL:  "https://example.org/attention.html",
	})
	if err != nil {
		t.Fatal(err)
	}

	wantStages := []Stage{StageReading, StageFetchingID, StageAnalysis, StageIdle}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] {
			t.Fatalf("stages = %v, want %v", stages, wantStages)
		}
	}

	if it.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", it.Title)
	}
	if it.Year != "2017" {
		t.Errorf("Year = %q, lookup result lost", it.Year)
	}
	if it.Category != "Computer Science" {
		t.Errorf("Category = %q, enrichment lost", it.Category)
	}
	if it.Identifiers.DOI != "10.48550/arXiv.1706.03762" {
		t.Errorf("DOI = %q", it.Identifiers.DOI)
	}
	if it.Source != library.SourceLink || it.Format != library.FormatURL {
		t.Errorf("Source/Format = %v/%v", it.Source, it.Format)
	}
	if len(it.Chunks) == 0 {
		t.Error("chunks not captured")
	}
	if it.ID == "" || it.AddMethod != library.AddLink {
		t.Errorf("identity not set: id=%q method=%q", it.ID, it.AddMethod)
	}
}

func TestRunLinkReadFailureLeavesNothing(t *testing.T) {
	var stages []Stage
	w := &Workflow{
		Reader:  &fakeReader{err: errors.New("404")},
		OnStage: func(s Stage) { stages = append(stages, s) },
	}
	_, err := w.Run(context.Background(), Input{Kind: library.AddLink, URL: "https://example.org/x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if last := stages[len(stages)-1]; last != StageIdle {
		t.Errorf("pipeline did not return to idle: %v", stages)
	}
}

func TestRunLinkLookupFailureAlertsAndContinues(t *testing.T) {
	reader := &fakeReader{capture: Capture{
		Title: "Some Paper",
		Text:  "See doi:10.1000/xyz123 for details",
	}}
	var alerts []string
	w := &Workflow{
		Reader:   reader,
		Resolver: &fakeResolver{err: errors.New("backend down")},
		Enricher: &fakeEnricher{patch: library.Patch{Year: "1999"}},
		OnAlert:  func(msg string) { alerts = append(alerts, msg) },
	}
	it, err := w.Run(context.Background(), Input{Kind: library.AddLink, URL: "https://example.org/p"})
	if err != nil {
		t.Fatalf("lookup failure must not abort the run: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("alerts = %v, want exactly one", alerts)
	}
	if it.Year != "1999" {
		t.Errorf("Year = %q, enrichment should still run", it.Year)
	}
}

func TestRunLinkVideoSource(t *testing.T) {
	reader := &fakeReader{capture: Capture{
		Title: "Lecture 1",
		Text:  enrich.VideoSentinel + " lecture transcript",
	}}
	w := &Workflow{Reader: reader}
	it, err := w.Run(context.Background(), Input{Kind: library.AddLink, URL: "https://youtube.com/watch?v=abc"})
	if err != nil {
		t.Fatal(err)
	}
	if it.Source != library.SourceVideo {
		t.Errorf("Source = %v, want %v", it.Source, library.SourceVideo)
	}
}

func TestRunLinkVideoOverridesLookupMetadata(t *testing.T) {
	// A DOI in a video description resolves to the cited paper; the
	// platform rules must still win on the final record.
	reader := &fakeReader{capture: Capture{
		Title: "Paper walkthrough",
		Text:  enrich.VideoSentinel + " we discuss doi 10.1016/j.cell.2024.01.001 today",
	}}
	resolver := &fakeResolver{patch: library.Patch{
		Category:  "Journal Article",
		Publisher: "Elsevier",
		Authors:   []string{"First Author", "Second Author"},
		Citations: library.Citations{BibAPA: "Author, F. (2024). Cell."},
	}}
	w := &Workflow{Reader: reader, Resolver: resolver}

	it, err := w.Run(context.Background(), Input{Kind: library.AddLink, URL: "https://youtube.com/watch?v=xyz"})
	if err != nil {
		t.Fatal(err)
	}
	if it.Category != enrich.VideoCategory {
		t.Errorf("Category = %q, want %q", it.Category, enrich.VideoCategory)
	}
	if it.Publisher != enrich.VideoPublisher {
		t.Errorf("Publisher = %q, want %q", it.Publisher, enrich.VideoPublisher)
	}
	if len(it.AuthorList) > 1 {
		t.Errorf("AuthorList = %v, want at most the uploader", it.AuthorList)
	}
	if it.Citations != (library.Citations{}) {
		t.Errorf("Citations = %+v, want empty", it.Citations)
	}
}

func TestRunLinkURLIdentifierWins(t *testing.T) {
	reader := &fakeReader{capture: Capture{Text: "Body mentions doi 10.9999/other.id here"}}
	resolver := &fakeResolver{patch: library.Patch{Title: "From Lookup"}}
	w := &Workflow{Reader: reader, Resolver: resolver}
	_, err := w.Run(context.Background(), Input{
		Kind: library.AddLink,
		URL:  "https://arxiv.org/abs/2101.00001",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resolver.lastRaw != "2101.00001" {
		t.Errorf("resolved %q, want the identifier from the URL", resolver.lastRaw)
	}
}

func TestRunFile(t *testing.T) {
	reader := &fakeReader{capture: Capture{
		Text:   "plain document text",
		FileID: "drive-123",
	}}
	w := &Workflow{Reader: reader}
	it, err := w.Run(context.Background(), Input{
		Kind:     library.AddFile,
		FileName: "notes-2024.pdf",
		FileData: []byte("%PDF-1.4"),
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatal(err)
	}
	if it.Format != library.FormatPDF {
		t.Errorf("Format = %v", it.Format)
	}
	if it.FileID != "drive-123" {
		t.Errorf("FileID = %q", it.FileID)
	}
	if it.Title != "notes-2024" {
		t.Errorf("Title = %q, want filename fallback", it.Title)
	}
	if it.Source != library.SourceFile {
		t.Errorf("Source = %v", it.Source)
	}
}

func TestRunFileLocalScanHints(t *testing.T) {
	reader := &fakeReader{capture: Capture{
		Text:       "body text mentioning doi 10.9999/from.text",
		Identifier: "10.9999/from.reader",
	}}
	resolver := &fakeResolver{patch: library.Patch{Year: "2020"}}
	w := &Workflow{Reader: reader, Resolver: resolver}
	it, err := w.Run(context.Background(), Input{
		Kind:           library.AddFile,
		FileName:       "scan.pdf",
		FileData:       []byte("%PDF-1.4"),
		TitleHint:      "A Title Printed On Page One",
		IdentifierHint: "10.9999/from.scan",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resolver.lastRaw != "10.9999/from.scan" {
		t.Errorf("resolved %q, want the scan hint", resolver.lastRaw)
	}
	if it.Title != "A Title Printed On Page One" {
		t.Errorf("Title = %q, want the scan hint over the filename", it.Title)
	}
}

func TestRunRef(t *testing.T) {
	resolver := &fakeResolver{patch: library.Patch{
		Title:       "The Go Programming Language",
		Authors:     []string{"Alan Donovan", "Brian Kernighan"},
		Year:        "2015",
		Identifiers: library.Identifiers{ISBN: "9780134190440"},
	}}
	w := &Workflow{Resolver: resolver}
	it, err := w.Run(context.Background(), Input{Kind: library.AddRef, Ref: "978-0-13-419044-0"})
	if err != nil {
		t.Fatal(err)
	}
	if resolver.lastRaw != "9780134190440" {
		t.Errorf("resolver got %q, want normalized ISBN", resolver.lastRaw)
	}
	if it.Source != library.SourceBook {
		t.Errorf("Source = %v, want %v", it.Source, library.SourceBook)
	}
	if it.Title != "The Go Programming Language" || it.Year != "2015" {
		t.Errorf("lookup fields lost: %+v", it)
	}
	if it.Authors != "Alan Donovan, Brian Kernighan" {
		t.Errorf("Authors = %q", it.Authors)
	}
}

func TestRunRefNotFound(t *testing.T) {
	w := &Workflow{Resolver: &fakeResolver{}}
	_, err := w.Run(context.Background(), Input{Kind: library.AddRef, Ref: "10.1000/missing1"})
	if !errors.Is(err, ErrIdentifierNotFound) {
		t.Errorf("err = %v, want ErrIdentifierNotFound", err)
	}
}

func TestRunRefUnrecognized(t *testing.T) {
	resolver := &fakeResolver{}
	w := &Workflow{Resolver: resolver}
	_, err := w.Run(context.Background(), Input{Kind: library.AddRef, Ref: "not an identifier"})
	if err == nil {
		t.Fatal("expected error")
	}
	if resolver.calls != 0 {
		t.Error("resolver called for unrecognized input")
	}
	if !strings.Contains(err.Error(), "unrecognized") {
		t.Errorf("err = %v", err)
	}
}
