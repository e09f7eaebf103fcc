package diag

import (
	"errors"
	"testing"

	"basil/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SynParseError:            "SYN2001",
		SemaDuplicateDeclaration: "SEM3001",
		IOLoadFileError:          "IO4001",
		ProjInvalidManifest:      "PRJ5001",
		ResDocumentTooLarge:      "RES6001",
		UnknownCode:              "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if got := SemaShadowedDeclaration.String(); got != "[SEM3002]: Shadowed declaration" {
		t.Fatalf("unexpected String(): %q", got)
	}
	if got := Code(3999).Title(); got != "Unknown error" {
		t.Fatalf("unknown code title = %q", got)
	}
}

func TestParseCode(t *testing.T) {
	code, ok := ParseCode("SEM3003")
	if !ok || code != SemaUndeclaredName {
		t.Fatalf("ParseCode(SEM3003) = %v, %v", code, ok)
	}
	if _, ok := ParseCode("SEM9999"); ok {
		t.Fatalf("unknown id must not parse")
	}
	if _, ok := ParseCode("E0000"); ok {
		t.Fatalf("UnknownCode must not be addressable")
	}
}

func TestSeverityLSP(t *testing.T) {
	if SevError.LSP() != 1 || SevWarning.LSP() != 2 || SevInfo.LSP() != 3 {
		t.Fatalf("unexpected LSP severity mapping")
	}
}

func TestBagSortDedupAndLimit(t *testing.T) {
	sp := func(start, end uint32) source.Span { return source.Span{File: 0, Start: start, End: end} }

	b := NewBag(3)
	b.Add(NewWarning(SemaUndeclaredName, sp(5, 6), "b"))
	b.Add(NewError(SemaUndefinedProcedure, sp(0, 1), "a"))
	b.Add(NewError(SemaUndefinedProcedure, sp(0, 1), "a again"))
	if b.Add(NewError(SynParseError, sp(9, 9), "overflow")) {
		t.Fatalf("bag must respect its limit")
	}

	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Primary.Start != 0 || items[1].Primary.Start != 5 {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}

	b.Filter(func(d *Diagnostic) bool { return d.Severity == SevWarning })
	if b.Len() != 1 || b.HasErrors() {
		t.Fatalf("filter kept wrong diagnostics: %+v", b.Items())
	}

	b.Transform(func(d *Diagnostic) { d.Severity = SevError })
	if !b.HasErrors() {
		t.Fatalf("transform did not update severity")
	}

	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		unlimited.Add(NewError(SynParseError, sp(0, 0), "x"))
	}
	if unlimited.Len() != 100 {
		t.Fatalf("zero limit must mean unlimited")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rep := NewDedupReporter(BagReporter{Bag: bag})

	anchor := source.Span{Start: 4, End: 4}
	b := ReportError(rep, SemaUndeclaredName, source.Span{Start: 4, End: 5}, "'y' is not defined").
		WithNote(source.Span{Start: 0, End: 1}, "see here").
		WithAction(anchor, func(FixBuildContext, *Diagnostic) *Fix { return nil })
	b.Emit()
	b.Emit()
	// та же диагностика через другой builder отфильтровывается DedupReporter
	ReportError(rep, SemaUndeclaredName, source.Span{Start: 4, End: 5}, "'y' is not defined").Emit()

	if bag.Len() != 1 || rep.Seen() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d (seen %d)", bag.Len(), rep.Seen())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Anchor != anchor || d.Action == nil {
		t.Fatalf("builder lost details: %+v", d)
	}
}

func TestDiagnosticSame(t *testing.T) {
	a := NewError(SemaDuplicateDeclaration, source.Span{Start: 1, End: 2}, "dup").WithNote(source.Span{}, "n")
	b := a
	b.Action = func(FixBuildContext, *Diagnostic) *Fix { return nil }
	if !a.Same(&b) {
		t.Fatalf("action must not affect Same")
	}
	b.Notes = []Note{{Msg: "other"}}
	if a.Same(&b) {
		t.Fatalf("different notes must differ")
	}
}

func TestMaterializeFixes(t *testing.T) {
	lazy := Fix{
		ID:    "lazy",
		Title: "Insert",
		Thunk: func(ctx FixBuildContext) (Fix, error) {
			return Fix{Edits: []TextEdit{{NewText: ctx.URI}}}, nil
		},
	}
	ready := Fix{Title: "Ready", Edits: []TextEdit{{NewText: "x"}}}

	out, err := MaterializeFixes(FixBuildContext{URI: "file:///a.bas"}, []Fix{lazy, ready})
	if err != nil {
		t.Fatalf("MaterializeFixes: %v", err)
	}
	if out[0].ID != "lazy" || out[0].Title != "Insert" || out[0].Edits[0].NewText != "file:///a.bas" || out[0].Thunk != nil {
		t.Fatalf("lazy fix not resolved: %+v", out[0])
	}
	if out[1].Title != "Ready" {
		t.Fatalf("ready fix changed: %+v", out[1])
	}

	boom := errors.New("boom")
	failing := Fix{Title: "Broken", Thunk: func(FixBuildContext) (Fix, error) { return Fix{}, boom }}
	if _, err := MaterializeFixes(FixBuildContext{}, []Fix{failing}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped thunk error, got %v", err)
	}
}
