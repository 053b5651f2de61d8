// Package library defines the core domain types for library items.
package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemType classifies an item by purpose.
type ItemType string

// Valid item types.
const (
	TypeLiterature ItemType = "Literature"
	TypeTask       ItemType = "Task"
	TypePersonal   ItemType = "Personal"
	TypeOther      ItemType = "Other"
)

// ValidTypes lists the supported item types.
var ValidTypes = []ItemType{TypeLiterature, TypeTask, TypePersonal, TypeOther}

// AddMethod records how an item entered the library.
type AddMethod string

// Valid add methods.
const (
	AddLink AddMethod = "LINK"
	AddFile AddMethod = "FILE"
	AddRef  AddMethod = "REF"
)

// SourceType describes the kind of captured source.
type SourceType string

// Valid source types.
const (
	SourceLink  SourceType = "LINK"
	SourceFile  SourceType = "FILE"
	SourceNote  SourceType = "NOTE"
	SourceBook  SourceType = "BOOK"
	SourceVideo SourceType = "VIDEO"
)

// FileFormat is the detected format of a captured source.
type FileFormat string

// Common file formats.
const (
	FormatPDF  FileFormat = "PDF"
	FormatDOCX FileFormat = "DOCX"
	FormatPPTX FileFormat = "PPTX"
	FormatXLSX FileFormat = "XLSX"
	FormatMD   FileFormat = "MD"
	FormatTXT  FileFormat = "TXT"
	FormatCSV  FileFormat = "CSV"
	FormatEPUB FileFormat = "EPUB"
	FormatMP4  FileFormat = "MP4"
	FormatURL  FileFormat = "URL"
)

// Citations holds the six citation strings an item may carry.
type Citations struct {
	InTextAPA     string `json:"inTextAPA,omitempty"`
	InTextHarvard string `json:"inTextHarvard,omitempty"`
	InTextChicago string `json:"inTextChicago,omitempty"`
	BibAPA        string `json:"bibAPA,omitempty"`
	BibHarvard    string `json:"bibHarvard,omitempty"`
	BibChicago    string `json:"bibChicago,omitempty"`
}

// IsEmpty reports whether no citation field is populated.
func (c Citations) IsEmpty() bool {
	return c == Citations{}
}

// Identifiers holds bibliographic identifiers. Each field is populated only
// when explicitly found in the source, never fabricated.
type Identifiers struct {
	DOI     string `json:"doi,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
	ISSN    string `json:"issn,omitempty"`
	PMID    string `json:"pmid,omitempty"`
	ArXivID string `json:"arxivId,omitempty"`
	Bibcode string `json:"bibcode,omitempty"`
}

// Item represents one persisted library record.
type Item struct {
	// Identity
	ID string `json:"id"`

	// Descriptive
	Title    string   `json:"title"`
	Type     ItemType `json:"type"`
	Category string   `json:"category"`
	Topic    string   `json:"topic"`
	SubTopic string   `json:"subTopic"`

	// Provenance
	AddMethod AddMethod  `json:"addMethod"`
	Source    SourceType `json:"source"`
	Format    FileFormat `json:"format"`
	URL       string     `json:"url,omitempty"`
	FileID    string     `json:"fileId,omitempty"`

	// People and classification
	Authors    string   `json:"author,omitempty"` // Display string, derived from AuthorList
	AuthorList []string `json:"authors"`
	Publisher  string   `json:"publisher,omitempty"`
	Year       string   `json:"year,omitempty"`
	Keywords   []string `json:"keywords"`
	Labels     []string `json:"labels"`
	Tags       []string `json:"tags"` // Always keywords ∪ labels, recomputed by Normalize

	// Bibliographic
	Citations   Citations   `json:"citations"`
	Identifiers Identifiers `json:"identifiers"`

	// Extracted full text, partitioned in order.
	Chunks []string `json:"chunks,omitempty"`

	Abstract string `json:"abstract,omitempty"`

	// Flags
	IsFavorite   bool `json:"isFavorite"`
	IsBookmarked bool `json:"isBookmarked"`

	// Timestamps (RFC 3339)
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewItem creates an item with a fresh id and creation timestamps.
func NewItem() Item {
	now := time.Now().UTC().Format(time.RFC3339)
	return Item{
		ID:        uuid.NewString(),
		Type:      TypeLiterature,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (it *Item) Touch() {
	it.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Normalize recomputes derived fields: the author display string and the
// tags union. Tags are never edited independently.
func (it *Item) Normalize() {
	it.Authors = strings.Join(it.AuthorList, ", ")
	it.Tags = unionTags(it.Keywords, it.Labels)
}

// Validate checks structural invariants before persistence.
func (it *Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item has no id")
	}
	if !validType(it.Type) {
		return fmt.Errorf("invalid item type: %q", it.Type)
	}
	switch it.AddMethod {
	case AddLink, AddFile, AddRef:
	default:
		return fmt.Errorf("invalid add method: %q", it.AddMethod)
	}
	if len(it.Chunks) > MaxChunks {
		return fmt.Errorf("too many chunks: %d (max %d)", len(it.Chunks), MaxChunks)
	}
	for i, c := range it.Chunks {
		if len(c) > MaxChunkLen {
			return fmt.Errorf("chunk %d exceeds %d characters", i+1, MaxChunkLen)
		}
	}
	return nil
}

func validType(t ItemType) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// unionTags merges keywords and labels preserving first-seen order and
// dropping duplicates and blanks.
func unionTags(keywords, labels []string) []string {
	seen := make(map[string]bool, len(keywords)+len(labels))
	union := make([]string, 0, len(keywords)+len(labels))
	for _, list := range [][]string{keywords, labels} {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			union = append(union, tag)
		}
	}
	return union
}

// FormatForExtension maps a file extension (without dot, any case) to a
// FileFormat. Unknown extensions default to PDF, matching the upload form's
// behavior of treating unrecognized files as PDF.
func FormatForExtension(ext string) FileFormat {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FormatPDF
	case "docx", "doc":
		return FormatDOCX
	case "pptx", "ppt":
		return FormatPPTX
	case "xlsx", "xls":
		return FormatXLSX
	case "md", "markdown":
		return FormatMD
	case "txt":
		return FormatTXT
	case "csv":
		return FormatCSV
	case "epub":
		return FormatEPUB
	case "mp4":
		return FormatMP4
	default:
		return FormatPDF
	}
}
