package sheets

import (
	"encoding/json"

	"github.com/xeenaps/shelf/internal/library"
)

// envelope is the JSON wrapper every backend response uses.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Backend actions.
const (
	actionGetLibrary       = "getLibrary"
	actionSaveItem         = "saveItem"
	actionDeleteItem       = "deleteItem"
	actionExtractOnly      = "extractOnly"
	actionIdentifierSearch = "identifierSearch"
	actionSetupDatabase    = "setupDatabase"
	actionAIProxy          = "aiProxy"
)

// ListParams selects a page of the remote library.
type ListParams struct {
	Page         int
	Limit        int
	Search       string
	Type         string // Item type filter; empty or "All" means no filter
	SortBy       string // Defaults to createdAt
	SortOrder    string // asc or desc, defaults to desc
	IsFavorite   bool
	IsBookmarked bool
}

// PagedItems is one page of library items plus the unfiltered total.
type PagedItems struct {
	Items      []library.Item `json:"items"`
	TotalCount int            `json:"totalCount"`
}

// FilePayload carries a base64-encoded file alongside a save or extract call.
type FilePayload struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileData string `json:"fileData"` // base64, no data-URL prefix
}

// Extraction is the backend's extract-only result: raw captured text plus
// whatever metadata the scraper could establish on its own.
type Extraction struct {
	Title     string   `json:"title,omitempty"`
	FullText  string   `json:"fullText,omitempty"`
	AISnippet string   `json:"aiSnippet,omitempty"`
	Chunks    []string `json:"chunks,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	FileID    string   `json:"fileId,omitempty"`

	Authors   []string `json:"authors,omitempty"`
	Year      string   `json:"year,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Category  string   `json:"category,omitempty"`
	Type      string   `json:"type,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Text returns the best available text for enrichment: the backend's
// AI snippet when present, otherwise the full captured text.
func (e *Extraction) Text() string {
	if e.AISnippet != "" {
		return e.AISnippet
	}
	return e.FullText
}

// Patch converts the scraper-established metadata into a library patch.
func (e *Extraction) Patch() library.Patch {
	return library.Patch{
		Title:     e.Title,
		Authors:   e.Authors,
		Year:      e.Year,
		Publisher: e.Publisher,
		Category:  e.Category,
		Type:      e.Type,
		Keywords:  e.Keywords,
		Identifiers: library.Identifiers{
			DOI: e.DOI,
		},
	}
}

// saveRequest is the envelope for saveItem calls.
type saveRequest struct {
	Action string       `json:"action"`
	Item   library.Item `json:"item"`
	File   *FilePayload `json:"file,omitempty"`
}

// extractRequest is the envelope for extractOnly calls.
type extractRequest struct {
	Action   string `json:"action"`
	URL      string `json:"url,omitempty"`
	FileData string `json:"fileData,omitempty"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// aiProxyRequest is the envelope for aiProxy calls.
type aiProxyRequest struct {
	Action   string `json:"action"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Prompt   string `json:"prompt"`
}
