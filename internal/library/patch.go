package library

// Patch is a partial item: fields established by extraction, identifier
// lookup, or AI enrichment. Empty values mean "not established" and never
// overwrite anything during a merge.
type Patch struct {
	Title     string   `json:"title,omitempty"`
	Type      string   `json:"type,omitempty"`
	Category  string   `json:"category,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	SubTopic  string   `json:"subTopic,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`

	Citations   Citations   `json:"citations,omitempty"`
	Identifiers Identifiers `json:"identifiers,omitempty"`
}

// IsZero reports whether the patch establishes nothing.
func (p Patch) IsZero() bool {
	return p.Title == "" && p.Type == "" && p.Category == "" && p.Topic == "" &&
		p.SubTopic == "" && len(p.Authors) == 0 && p.Publisher == "" &&
		p.Year == "" && len(p.Keywords) == 0 && len(p.Labels) == 0 &&
		p.Abstract == "" && p.Citations.IsEmpty() && p.Identifiers == (Identifiers{})
}

// Overlay returns a patch where every non-empty field of p wins over the
// corresponding field of under. Used to keep known-good data authoritative
// over later, less trusted sources.
func (p Patch) Overlay(under Patch) Patch {
	out := under
	if p.Title != "" {
		out.Title = p.Title
	}
	if p.Type != "" {
		out.Type = p.Type
	}
	if p.Category != "" {
		out.Category = p.Category
	}
	if p.Topic != "" {
		out.Topic = p.Topic
	}
	if p.SubTopic != "" {
		out.SubTopic = p.SubTopic
	}
	if len(p.Authors) > 0 {
		out.Authors = p.Authors
	}
	if p.Publisher != "" {
		out.Publisher = p.Publisher
	}
	if p.Year != "" {
		out.Year = p.Year
	}
	if len(p.Keywords) > 0 {
		out.Keywords = p.Keywords
	}
	if len(p.Labels) > 0 {
		out.Labels = p.Labels
	}
	if p.Abstract != "" {
		out.Abstract = p.Abstract
	}
	out.Citations = overlayCitations(p.Citations, out.Citations)
	out.Identifiers = overlayIdentifiers(p.Identifiers, out.Identifiers)
	return out
}

func overlayCitations(p, under Citations) Citations {
	out := under
	if p.InTextAPA != "" {
		out.InTextAPA = p.InTextAPA
	}
	if p.InTextHarvard != "" {
		out.InTextHarvard = p.InTextHarvard
	}
	if p.InTextChicago != "" {
		out.InTextChicago = p.InTextChicago
	}
	if p.BibAPA != "" {
		out.BibAPA = p.BibAPA
	}
	if p.BibHarvard != "" {
		out.BibHarvard = p.BibHarvard
	}
	if p.BibChicago != "" {
		out.BibChicago = p.BibChicago
	}
	return out
}

func overlayIdentifiers(p, under Identifiers) Identifiers {
	out := under
	if p.DOI != "" {
		out.DOI = p.DOI
	}
	if p.ISBN != "" {
		out.ISBN = p.ISBN
	}
	if p.ISSN != "" {
		out.ISSN = p.ISSN
	}
	if p.PMID != "" {
		out.PMID = p.PMID
	}
	if p.ArXivID != "" {
		out.ArXivID = p.ArXivID
	}
	if p.Bibcode != "" {
		out.Bibcode = p.Bibcode
	}
	return out
}

// PatchOf captures an item's mergeable fields as a patch, used as the
// "known" side when merging enrichment output.
func PatchOf(it Item) Patch {
	return Patch{
		Title:       it.Title,
		Type:        string(it.Type),
		Category:    it.Category,
		Topic:       it.Topic,
		SubTopic:    it.SubTopic,
		Authors:     it.AuthorList,
		Publisher:   it.Publisher,
		Year:        it.Year,
		Keywords:    it.Keywords,
		Labels:      it.Labels,
		Abstract:    it.Abstract,
		Citations:   it.Citations,
		Identifiers: it.Identifiers,
	}
}

// Apply writes every non-empty patch field onto the item and renormalizes.
func (p Patch) Apply(it *Item) {
	if p.Title != "" {
		it.Title = p.Title
	}
	if p.Type != "" {
		it.Type = ItemType(p.Type)
	}
	if p.Category != "" {
		it.Category = p.Category
	}
	if p.Topic != "" {
		it.Topic = p.Topic
	}
	if p.SubTopic != "" {
		it.SubTopic = p.SubTopic
	}
	if len(p.Authors) > 0 {
		it.AuthorList = p.Authors
	}
	if p.Publisher != "" {
		it.Publisher = p.Publisher
	}
	if p.Year != "" {
		it.Year = p.Year
	}
	if len(p.Keywords) > 0 {
		it.Keywords = p.Keywords
	}
	if len(p.Labels) > 0 {
		it.Labels = p.Labels
	}
	if p.Abstract != "" {
		it.Abstract = p.Abstract
	}
	it.Citations = overlayCitations(p.Citations, it.Citations)
	it.Identifiers = overlayIdentifiers(p.Identifiers, it.Identifiers)
	it.Normalize()
}
