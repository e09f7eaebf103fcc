package diagfmt

import (
	"slices"
	"testing"

	"basil/internal/diag"
	"basil/internal/source"
)

func TestFixEditPreview(t *testing.T) {
	fs := source.NewFileSet()
	// CRLF снимается при загрузке, смещения ниже считаются по LF-тексту
	id := fs.AddVirtual("Book.bas", []byte("Sub Main()\r\n    x = 1\r\n    y = 2\r\nEnd Sub\r\n"))
	if got := string(fs.Get(id).Content[15:16]); got != "x" {
		t.Fatalf("content not normalised: %q at 15", got)
	}

	tests := []struct {
		name   string
		edit   diag.TextEdit
		before []string
		after  []string
	}{
		{
			name:   "insert at top",
			edit:   diag.TextEdit{Span: source.Span{File: id}, NewText: "Option Explicit\r\n"},
			before: []string{"Sub Main()"},
			after:  []string{"Option Explicit", "Sub Main()"},
		},
		{
			name:   "replace inside line",
			edit:   diag.TextEdit{Span: source.Span{File: id, Start: 15, End: 16}, NewText: "total"},
			before: []string{"    x = 1"},
			after:  []string{"    total = 1"},
		},
		{
			name:   "delete across lines",
			edit:   diag.TextEdit{Span: source.Span{File: id, Start: 20, End: 30}},
			before: []string{"    x = 1", "    y = 2"},
			after:  []string{"    x = 1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := buildFixEditPreview(fs, tt.edit)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(p.before, tt.before) {
				t.Errorf("before = %q, want %q", p.before, tt.before)
			}
			if !slices.Equal(p.after, tt.after) {
				t.Errorf("after = %q, want %q", p.after, tt.after)
			}
		})
	}
}

func TestFixEditPreviewRejectsBadSpans(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Book.bas", []byte("Sub Main()\n"))

	if _, err := buildFixEditPreview(fs, diag.TextEdit{Span: source.Span{File: id, Start: 4, End: 2}}); err == nil {
		t.Error("inverted span accepted")
	}
	if _, err := buildFixEditPreview(fs, diag.TextEdit{Span: source.Span{File: id, Start: 0, End: 99}}); err == nil {
		t.Error("span past the end accepted")
	}
	if _, err := buildFixEditPreview(nil, diag.TextEdit{}); err == nil {
		t.Error("nil FileSet accepted")
	}
}
