package library

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeTagUnion(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		labels   []string
		want     []string
	}{
		{
			name:     "disjoint sets",
			keywords: []string{"immunology", "b-cells"},
			labels:   []string{"to-read"},
			want:     []string{"immunology", "b-cells", "to-read"},
		},
		{
			name:     "overlap deduplicated",
			keywords: []string{"statistics", "inference"},
			labels:   []string{"inference", "methods"},
			want:     []string{"statistics", "inference", "methods"},
		},
		{
			name:     "blank entries dropped",
			keywords: []string{"", "phylogenetics", "  "},
			labels:   []string{"trees"},
			want:     []string{"phylogenetics", "trees"},
		},
		{
			name:     "both empty",
			keywords: nil,
			labels:   nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewItem()
			it.Keywords = tt.keywords
			it.Labels = tt.labels
			it.Normalize()
			if !reflect.DeepEqual(it.Tags, tt.want) {
				t.Errorf("Normalize() tags = %v, want %v", it.Tags, tt.want)
			}
		})
	}
}

func TestNormalizeRecomputesAfterEdit(t *testing.T) {
	it := NewItem()
	it.Keywords = []string{"alpha"}
	it.Labels = []string{"beta"}
	it.Normalize()

	it.Labels = []string{"gamma"}
	it.Normalize()

	want := []string{"alpha", "gamma"}
	if !reflect.DeepEqual(it.Tags, want) {
		t.Errorf("tags after re-normalize = %v, want %v", it.Tags, want)
	}
}

func TestNormalizeAuthorDisplay(t *testing.T) {
	it := NewItem()
	it.AuthorList = []string{"Ada Lovelace", "Charles Babbage"}
	it.Normalize()
	if it.Authors != "Ada Lovelace, Charles Babbage" {
		t.Errorf("author display = %q", it.Authors)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Item {
		it := NewItem()
		it.AddMethod = AddLink
		return it
	}

	t.Run("valid item", func(t *testing.T) {
		it := valid()
		if err := it.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		it := valid()
		it.ID = ""
		if err := it.Validate(); err == nil {
			t.Error("Validate() accepted item without id")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		it := valid()
		it.Type = "Journal"
		if err := it.Validate(); err == nil {
			t.Error("Validate() accepted unknown type")
		}
	})

	t.Run("unknown add method", func(t *testing.T) {
		it := valid()
		it.AddMethod = "PASTE"
		if err := it.Validate(); err == nil {
			t.Error("Validate() accepted unknown add method")
		}
	})

	t.Run("too many chunks", func(t *testing.T) {
		it := valid()
		it.Chunks = make([]string, MaxChunks+1)
		if err := it.Validate(); err == nil {
			t.Error("Validate() accepted more than MaxChunks chunks")
		}
	})

	t.Run("oversized chunk", func(t *testing.T) {
		it := valid()
		it.Chunks = []string{strings.Repeat("x", MaxChunkLen+1)}
		if err := it.Validate(); err == nil {
			t.Error("Validate() accepted oversized chunk")
		}
	})
}

func TestNewItemIdentity(t *testing.T) {
	a := NewItem()
	b := NewItem()
	if a.ID == "" || b.ID == "" {
		t.Fatal("NewItem() produced empty id")
	}
	if a.ID == b.ID {
		t.Fatal("NewItem() produced duplicate ids")
	}
	if a.CreatedAt == "" || a.UpdatedAt == "" {
		t.Fatal("NewItem() missing timestamps")
	}
}

func TestFormatForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want FileFormat
	}{
		{"pdf", FormatPDF},
		{".PDF", FormatPDF},
		{"docx", FormatDOCX},
		{"pptx", FormatPPTX},
		{"xlsx", FormatXLSX},
		{"md", FormatMD},
		{"bin", FormatPDF}, // unknown falls back to PDF
	}
	for _, tt := range tests {
		if got := FormatForExtension(tt.ext); got != tt.want {
			t.Errorf("FormatForExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
