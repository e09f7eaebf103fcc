package lsp

import (
	"testing"

	"basil/internal/source"
)

func TestApplyChangesIncremental(t *testing.T) {
	text := "Sub Main()\n    x = 1\nEnd Sub\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{{
		Range: &lspRange{Start: position{Line: 1, Character: 4}, End: position{Line: 1, Character: 5}},
		Text:  "total",
	}})
	if want := "Sub Main()\n    total = 1\nEnd Sub\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyChangesFullReplace(t *testing.T) {
	got := applyChanges("old", []textDocumentContentChangeEvent{{Text: "new"}, {
		Range: &lspRange{Start: position{Line: 0, Character: 3}, End: position{Line: 0, Character: 3}},
		Text:  "er",
	}})
	if got != "newer" {
		t.Fatalf("got %q", got)
	}
}

func TestOffsetForPositionUTF16(t *testing.T) {
	// "𝔁" занимает две единицы UTF-16 и четыре байта
	text := "s = \"𝔁\" & y\n"
	if got := offsetForPosition(text, position{Line: 0, Character: 7}); got != 9 {
		t.Fatalf("offset after surrogate pair = %d, want 9", got)
	}
	if got := offsetForPosition(text, position{Line: 5, Character: 0}); got != len(text) {
		t.Fatalf("offset past the end = %d, want %d", got, len(text))
	}
}

func TestRangeConversionRoundTrip(t *testing.T) {
	r := source.Range{Start: source.Position{Line: 2, Character: 4}, End: source.Position{Line: 3, Character: 1}}
	if got := fromLSPRange(toLSPRange(r)); got != r {
		t.Fatalf("got %+v, want %+v", got, r)
	}
}

func TestOffsetForPositionClampsToLineEnd(t *testing.T) {
	text := "Sub A()\r\n    x = 1\r\nEnd Sub"
	if got := offsetForPosition(text, position{Line: 0, Character: 99}); got != 7 {
		t.Fatalf("CRLF line end = %d, want 7", got)
	}
	if got := offsetForPosition(text, position{Line: 2, Character: 99}); got != len(text) {
		t.Fatalf("last line end = %d, want %d", got, len(text))
	}
	got := applyChanges(text, []textDocumentContentChangeEvent{{
		Range: &lspRange{Start: position{Line: 0, Character: 7}, End: position{Line: 0, Character: 7}},
		Text:  " ' entry",
	}})
	if want := "Sub A() ' entry\r\n    x = 1\r\nEnd Sub"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
