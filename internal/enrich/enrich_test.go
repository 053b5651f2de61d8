package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xeenaps/shelf/internal/library"
)

func TestParseResponseStripsProse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		title    string
	}{
		{
			name:     "bare object",
			response: `{"title": "Deep Learning", "year": "2016"}`,
			title:    "Deep Learning",
		},
		{
			name:     "markdown fence",
			response: "```json\n{\"title\": \"Deep Learning\"}\n```",
			title:    "Deep Learning",
		},
		{
			name:     "leading prose",
			response: "Here is the metadata you asked for:\n{\"title\": \"Deep Learning\"}\nLet me know if you need more.",
			title:    "Deep Learning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseResponse(tt.response)
			if err != nil {
				t.Fatalf("ParseResponse: %v", err)
			}
			if p.Title != tt.title {
				t.Errorf("Title = %q, want %q", p.Title, tt.title)
			}
		})
	}
}

func TestParseResponseErrors(t *testing.T) {
	for _, response := range []string{"", "no json here", "{broken"} {
		if _, err := ParseResponse(response); err == nil {
			t.Errorf("ParseResponse(%q): expected error", response)
		}
	}
}

func TestSanitizeCapsAndCleans(t *testing.T) {
	p, err := ParseResponse(`{
		"type": "Literature",
		"year": "2021",
		"authors": ["  A. Turing ", "", "C. Shannon"],
		"keywords": ["a", "b", "c", "d", "e", "f", "g"],
		"labels": ["x", "", "y", "z", "w"]
	}`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != "Literature" {
		t.Errorf("Type = %q", p.Type)
	}
	if got := len(p.Keywords); got != KeywordCount {
		t.Errorf("len(Keywords) = %d, want %d", got, KeywordCount)
	}
	if got := len(p.Labels); got != LabelCount {
		t.Errorf("len(Labels) = %d, want %d", got, LabelCount)
	}
	want := []string{"A. Turing", "C. Shannon"}
	if len(p.Authors) != len(want) || p.Authors[0] != want[0] || p.Authors[1] != want[1] {
		t.Errorf("Authors = %v, want %v", p.Authors, want)
	}
}

func TestSanitizeRejectsBadValues(t *testing.T) {
	p, err := ParseResponse(`{"type": "Novel", "year": "circa 2020"}`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != "" {
		t.Errorf("invalid type kept: %q", p.Type)
	}
	if p.Year != "" {
		t.Errorf("invalid year kept: %q", p.Year)
	}
}

func TestExtractKnownFieldsWin(t *testing.T) {
	proxy := func(ctx context.Context, provider, model, prompt string) (string, error) {
		return `{"title": "Model Title", "publisher": "Model Press", "year": "1999"}`, nil
	}
	known := library.Patch{Title: "Real Title", Year: "2020"}

	got := New(proxy).Extract(context.Background(), "some document text", known)

	if got.Title != "Real Title" {
		t.Errorf("Title = %q, model output clobbered known value", got.Title)
	}
	if got.Year != "2020" {
		t.Errorf("Year = %q, model output clobbered known value", got.Year)
	}
	if got.Publisher != "Model Press" {
		t.Errorf("Publisher = %q, model should fill empty fields", got.Publisher)
	}
}

func TestExtractProxyFailureKeepsKnown(t *testing.T) {
	proxy := func(ctx context.Context, provider, model, prompt string) (string, error) {
		return "", errors.New("provider down")
	}
	known := library.Patch{Title: "Real Title"}
	got := New(proxy).Extract(context.Background(), "text", known)
	if got.Title != "Real Title" || got.Publisher != "" {
		t.Errorf("failed proxy must leave known patch unchanged, got %+v", got)
	}
}

func TestExtractEmptySnippetSkipsProxy(t *testing.T) {
	called := false
	proxy := func(ctx context.Context, provider, model, prompt string) (string, error) {
		called = true
		return "{}", nil
	}
	New(proxy).Extract(context.Background(), "   ", library.Patch{})
	if called {
		t.Error("proxy called for blank snippet")
	}
}

func TestExtractVideoSource(t *testing.T) {
	var prompt string
	proxy := func(ctx context.Context, provider, model, p string) (string, error) {
		prompt = p
		return `{
			"title": "Intro to Compilers",
			"authors": ["Some Channel", "Stray Second Author"],
			"category": "Model Category",
			"bibAPA": "should be dropped"
		}`, nil
	}
	snippet := VideoSentinel + " Intro to Compilers uploaded by Some Channel"

	got := New(proxy).Extract(context.Background(), snippet, library.Patch{})

	if !strings.Contains(prompt, "uploader") {
		t.Error("video snippet should use the video prompt")
	}
	if got.Category != VideoCategory {
		t.Errorf("Category = %q, want %q", got.Category, VideoCategory)
	}
	if got.Publisher != VideoPublisher {
		t.Errorf("Publisher = %q, want %q", got.Publisher, VideoPublisher)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Some Channel" {
		t.Errorf("Authors = %v, want only the uploader", got.Authors)
	}
	if !got.Citations.IsEmpty() {
		t.Errorf("video items must not carry citations: %+v", got.Citations)
	}
}

func TestExtractVideoOverridesKnownFields(t *testing.T) {
	proxy := func(ctx context.Context, provider, model, p string) (string, error) {
		return `{"title": "Paper Walkthrough"}`, nil
	}
	// Known metadata from a resolved DOI must not survive the video rules.
	known := library.Patch{
		Category:  "Journal Article",
		Publisher: "Elsevier",
		Authors:   []string{"First Author", "Second Author"},
		Citations: library.Citations{BibAPA: "Author, F. (2024). Cell."},
	}
	snippet := VideoSentinel + " walkthrough of a famous paper"

	got := New(proxy).Extract(context.Background(), snippet, known)

	if got.Category != VideoCategory || got.Publisher != VideoPublisher {
		t.Errorf("platform fields = %q/%q, want %q/%q",
			got.Category, got.Publisher, VideoCategory, VideoPublisher)
	}
	if len(got.Authors) != 1 {
		t.Errorf("Authors = %v, want only the uploader", got.Authors)
	}
	if !got.Citations.IsEmpty() {
		t.Errorf("Citations = %+v, want empty", got.Citations)
	}

	// The rules hold even when the model call fails.
	failing := func(ctx context.Context, provider, model, p string) (string, error) {
		return "", context.DeadlineExceeded
	}
	got = New(failing).Extract(context.Background(), snippet, known)
	if got.Category != VideoCategory || !got.Citations.IsEmpty() {
		t.Errorf("failure path: Category = %q, Citations = %+v", got.Category, got.Citations)
	}
}

func TestTruncateUTF8Boundary(t *testing.T) {
	s := strings.Repeat("a", 8498) + "héllo"
	out := Truncate(s, MaxSnippetLen)
	if len(out) > MaxSnippetLen {
		t.Errorf("len = %d, want <= %d", len(out), MaxSnippetLen)
	}
	for i, r := range out {
		if r == '�' {
			t.Errorf("invalid rune at %d", i)
		}
	}
}

func TestPromptMentionsCounts(t *testing.T) {
	p := buildLibrarianPrompt("text")
	if !strings.Contains(p, "exactly 5 keywords") {
		t.Error("keyword count missing from prompt")
	}
	if !strings.Contains(p, "exactly 3 broader thematic labels") {
		t.Error("label count missing from prompt")
	}
}
