package lsp

import "testing"

func TestFoldingRangeKeepsOptionalFields(t *testing.T) {
	h := newHarness(t)
	uri := tempURI(t, "Folds.bas")
	src := "Sub Main()\n    If True Then\n        x = 1\n    End If\nEnd Sub\n"
	h.open(uri, src, 1)
	h.drain()

	var folds []foldingRange
	h.request("textDocument/foldingRange", foldingRangeParams{TextDocument: textDocumentIdentifier{URI: uri}}, &folds)
	if !hasFoldingRange(folds, 0) || !hasFoldingRange(folds, 1) {
		t.Fatalf("expected folds for the procedure and the If block, got %+v", folds)
	}
	for _, f := range folds {
		if f.EndLine < f.StartLine {
			t.Fatalf("inverted fold: %+v", f)
		}
	}
}

func hasFoldingRange(ranges []foldingRange, start int) bool {
	for _, rng := range ranges {
		if rng.StartLine == start {
			return true
		}
	}
	return false
}
