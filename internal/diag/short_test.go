package diag

import (
	"testing"

	"basil/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/Module1.bas", []byte("a\nb\n"), 0)
	otherFile := fs.Add("/workspace/src/Class1.cls", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaUndeclaredName,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynParseError,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: otherFile, Start: 0, End: 1}, Msg: "declared here"},
			},
		},
	}

	expected := "note SYN2001 src/Class1.cls:1:1 declared here\n" +
		"error SYN2001 src/Module1.bas:1:1 first line second\n" +
		"warning SEM3003 src/Module1.bas:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	withoutNotes := "error SYN2001 src/Module1.bas:1:1 first line second\n" +
		"warning SEM3003 src/Module1.bas:2:1 another"
	if got := FormatShortDiagnostics(diags, fs, false); got != withoutNotes {
		t.Fatalf("unexpected output without notes:\n%s", got)
	}
}

func TestFormatShortDiagnosticsVirtualPath(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("file:///tmp/Module1.bas", []byte("x\n"))
	diags := []Diagnostic{NewError(SemaUndefinedProcedure, source.Span{File: id, Start: 0, End: 1}, "'x' is not defined")}
	want := "error SEM3004 file:///tmp/Module1.bas:1:1 'x' is not defined"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
