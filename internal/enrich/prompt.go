package enrich

import (
	"fmt"
	"strings"

	"github.com/xeenaps/shelf/internal/library"
)

// buildLibrarianPrompt asks for the full metadata record of a document
// snippet. The response contract is a single JSON object so ParseResponse
// can trim any surrounding prose.
func buildLibrarianPrompt(snippet string) string {
	var b strings.Builder
	b.WriteString("You are an expert librarian and citation specialist. ")
	b.WriteString("Analyze the following document text and extract its metadata.\n\n")
	b.WriteString("Respond with ONLY a single JSON object, no markdown fences and no commentary, with these keys:\n")
	fmt.Fprintf(&b, "- \"title\": the document title\n")
	fmt.Fprintf(&b, "- \"type\": one of %s\n", typeNames())
	b.WriteString("- \"category\": broad discipline (e.g. \"Computer Science\", \"Biology\")\n")
	b.WriteString("- \"topic\": main topic within the category\n")
	b.WriteString("- \"subTopic\": narrower subtopic\n")
	b.WriteString("- \"authors\": array of author names in the order listed\n")
	b.WriteString("- \"publisher\": journal, conference, or publishing body\n")
	b.WriteString("- \"year\": four-digit publication year\n")
	fmt.Fprintf(&b, "- \"keywords\": array of exactly %d keywords\n", KeywordCount)
	fmt.Fprintf(&b, "- \"labels\": array of exactly %d broader thematic labels\n", LabelCount)
	b.WriteString("- \"abstract\": a 2-3 sentence summary of the document\n")
	b.WriteString("- \"inTextAPA\", \"inTextHarvard\", \"inTextChicago\": in-text citations in each style\n")
	b.WriteString("- \"bibAPA\", \"bibHarvard\", \"bibChicago\": full bibliography entries in each style\n\n")
	b.WriteString("Use an empty string or empty array for anything the text does not establish. ")
	b.WriteString("Never invent authors, years, or publishers.\n\n")
	b.WriteString("DOCUMENT TEXT:\n")
	b.WriteString(snippet)
	return b.String()
}

// buildVideoPrompt is the variant for video-platform pages: only the
// uploader is credited and citation fields are not requested.
func buildVideoPrompt(snippet string) string {
	var b strings.Builder
	b.WriteString("You are cataloging a video from its watch-page text. ")
	b.WriteString("Respond with ONLY a single JSON object, no markdown fences and no commentary, with these keys:\n")
	b.WriteString("- \"title\": the video title\n")
	fmt.Fprintf(&b, "- \"type\": one of %s\n", typeNames())
	b.WriteString("- \"topic\": main topic of the video\n")
	b.WriteString("- \"subTopic\": narrower subtopic\n")
	b.WriteString("- \"authors\": array with exactly one entry, the channel or uploader name\n")
	b.WriteString("- \"year\": four-digit upload year if stated, else empty string\n")
	fmt.Fprintf(&b, "- \"keywords\": array of exactly %d keywords\n", KeywordCount)
	fmt.Fprintf(&b, "- \"labels\": array of exactly %d broader thematic labels\n", LabelCount)
	b.WriteString("- \"abstract\": a 2-3 sentence summary of the video\n\n")
	b.WriteString("Use an empty string or empty array for anything the text does not establish.\n\n")
	b.WriteString("PAGE TEXT:\n")
	b.WriteString(snippet)
	return b.String()
}

func typeNames() string {
	names := make([]string, len(library.ValidTypes))
	for i, t := range library.ValidTypes {
		names[i] = fmt.Sprintf("%q", string(t))
	}
	return strings.Join(names, ", ")
}
