// Package identifier detects and classifies bibliographic identifiers.
package identifier

import (
	"regexp"
	"strings"
)

// Kind names a class of bibliographic identifier.
type Kind string

// Supported identifier kinds.
const (
	KindDOI     Kind = "doi"
	KindISBN    Kind = "isbn"
	KindISSN    Kind = "issn"
	KindPMID    Kind = "pmid"
	KindArXiv   Kind = "arxiv"
	KindBibcode Kind = "bibcode"
	KindUnknown Kind = ""
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

var (
	isbnPattern    = regexp.MustCompile(`(?i)\b(?:97[89][- ]?)?\d{1,5}[- ]?\d{1,7}[- ]?\d{1,7}[- ]?[\dXx]\b`)
	issnPattern    = regexp.MustCompile(`(?i)\b\d{4}-\d{3}[\dXx]\b`)
	pmidPattern    = regexp.MustCompile(`(?i)\bpmid:?\s*(\d{1,8})\b`)
	arxivPattern   = regexp.MustCompile(`(?i)\b(?:arxiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)\b`)
	bibcodePattern = regexp.MustCompile(`\b\d{4}[A-Za-z][A-Za-z0-9&.]{13}[A-Z.:]\b`)
)

// FindDOI returns the first valid DOI found in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// Classify determines the kind of a user-supplied identifier string and
// returns it in normalized form. Only literal matches are reported; an
// unrecognized input yields KindUnknown with the trimmed input unchanged.
func Classify(raw string) (Kind, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return KindUnknown, ""
	}

	// Explicit prefixes take precedence over pattern sniffing.
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "doi:"):
		return classifyDOI(strings.TrimSpace(s[4:]))
	case strings.HasPrefix(lower, "https://doi.org/"), strings.HasPrefix(lower, "http://doi.org/"):
		return classifyDOI(s[strings.Index(s, "doi.org/")+len("doi.org/"):])
	case strings.HasPrefix(lower, "isbn"):
		if m := isbnPattern.FindString(s); m != "" {
			return KindISBN, normalizeISBN(m)
		}
	case strings.HasPrefix(lower, "arxiv:"):
		if m := arxivPattern.FindStringSubmatch(s); m != nil {
			return KindArXiv, m[1]
		}
	}

	if doi := FindDOI(s); doi != "" {
		return KindDOI, doi
	}
	if m := pmidPattern.FindStringSubmatch(s); m != nil {
		return KindPMID, m[1]
	}
	if issnPattern.MatchString(s) {
		return KindISSN, strings.ToUpper(issnPattern.FindString(s))
	}
	if m := arxivPattern.FindStringSubmatch(s); m != nil && looksLikeArXiv(s) {
		return KindArXiv, m[1]
	}
	if bibcodePattern.MatchString(s) {
		return KindBibcode, bibcodePattern.FindString(s)
	}
	if isbn := normalizeISBN(s); isISBNShape(isbn) {
		return KindISBN, isbn
	}
	return KindUnknown, s
}

func classifyDOI(s string) (Kind, string) {
	if doi := FindDOI(s); doi != "" {
		return KindDOI, doi
	}
	return KindUnknown, s
}

// looksLikeArXiv rejects bare number pairs (e.g. "2024.12345" inside prose)
// unless the whole input is the identifier.
func looksLikeArXiv(s string) bool {
	return arxivPattern.FindString(s) == strings.TrimSpace(s) ||
		strings.Contains(strings.ToLower(s), "arxiv")
}

func normalizeISBN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "ISBN")
	s = strings.TrimLeft(s, ":- ")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			b.WriteRune(r)
		} else if r != '-' && r != ' ' {
			return ""
		}
	}
	return b.String()
}

// isISBNShape reports whether a digit string has ISBN-10 or ISBN-13 length.
func isISBNShape(s string) bool {
	return len(s) == 10 || len(s) == 13
}

// DetectInURL extracts an identifier embedded in a URL, if any. DOI links
// (doi.org, publisher /doi/ paths) and arXiv abstract links are recognized.
func DetectInURL(url string) (Kind, string) {
	lower := strings.ToLower(url)
	if i := strings.Index(lower, "arxiv.org/abs/"); i != -1 {
		rest := url[i+len("arxiv.org/abs/"):]
		if m := arxivPattern.FindStringSubmatch(rest); m != nil {
			return KindArXiv, m[1]
		}
	}
	if doi := FindDOI(url); doi != "" {
		return KindDOI, doi
	}
	return KindUnknown, ""
}
