package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"basil/internal/diag"
	"basil/internal/source"
)

func writeModule(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Module1.bas")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return fs, id, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestApplyRegisteredActionOncePerAnchor(t *testing.T) {
	src := "Sub A()\n    x = x + 1\nEnd Sub\n"
	fs, id, path := writeModule(t, src)

	anchor := source.Span{File: id, Start: 12, End: 12}
	first := diag.NewWarning(diag.SemaUndeclaredName, source.Span{File: id, Start: 12, End: 13}, "'x' is not defined").
		WithAction(anchor, DeclareName)
	second := diag.NewWarning(diag.SemaUndeclaredName, source.Span{File: id, Start: 16, End: 17}, "'x' is not defined").
		WithAction(anchor, DeclareName)

	reg := NewRegistry(fs)
	reg.RegisterDiagnosticAction(&first)

	res, err := Apply(fs, reg, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("expected one applied fix, got %+v", res.Applied)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate skip, got %+v", res.Skipped)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].Path != "Module1.bas" || res.FileChanges[0].EditCount != 1 {
		t.Fatalf("unexpected file changes %+v", res.FileChanges)
	}
	want := "Sub A()\n    Dim x\n    x = x + 1\nEnd Sub\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("file content:\n%q\nwant:\n%q", got, want)
	}
}

func TestApplyConflictsAndGuards(t *testing.T) {
	fs, id, path := writeModule(t, "x = 1\n")
	span := source.Span{File: id, Start: 0, End: 1}

	d := diag.NewError(diag.SemaUndeclaredName, span, "x").
		WithFixSuggestion(ReplaceSpan("to y", span, "y", "x", WithID("a"))).
		WithFixSuggestion(ReplaceSpan("to z", span, "z", "x", WithID("b")))
	guarded := diag.NewError(diag.SemaUndeclaredName, source.Span{File: id, Start: 4, End: 5}, "g").
		WithFixSuggestion(ReplaceSpan("bad guard", source.Span{File: id, Start: 4, End: 5}, "2", "9", WithID("c")))

	res, err := Apply(fs, nil, []diag.Diagnostic{d, guarded}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "a" {
		t.Fatalf("expected only fix 'a' applied, got %+v", res.Applied)
	}
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.ID] = s.Reason
	}
	if reasons["b"] == "" || reasons["c"] != "existing text does not match expected content" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
	if got := readFile(t, path); got != "y = 1\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestApplyModes(t *testing.T) {
	fs, id, _ := writeModule(t, "a b\n")
	mk := func(start uint32, fixID string, app diag.FixApplicability) diag.Diagnostic {
		sp := source.Span{File: id, Start: start, End: start + 1}
		return diag.NewError(diag.SynParseError, sp, "p").
			WithFixSuggestion(DeleteSpan("delete", sp, "", WithID(fixID), WithApplicability(app)))
	}
	diags := []diag.Diagnostic{
		mk(0, "risky", diag.FixApplicabilityManualReview),
		mk(2, "safe", diag.FixApplicabilityAlwaysSafe),
	}

	_, err := Apply(fs, nil, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes for unknown id, got %v", err)
	}

	res, err := Apply(fs, nil, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply once: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "safe" {
		t.Fatalf("once mode must prefer an always-safe fix, got %+v", res.Applied)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("untitled:Module1", []byte("x\n"))
	sp := source.Span{File: id, Start: 0, End: 1}
	d := diag.NewError(diag.SemaUndeclaredName, sp, "x").WithFix("delete", diag.TextEdit{Span: sp})

	res, err := Apply(fs, nil, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	fs := source.NewFileSet()
	if _, err := Apply(fs, NewRegistry(fs), []diag.Diagnostic{{Code: diag.SemaShadowedDeclaration}}, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if _, err := Apply(nil, nil, nil, ApplyOptions{}); err == nil {
		t.Fatalf("nil FileSet must fail")
	}
}

func TestApplyKeepsCRLFAndBOM(t *testing.T) {
	fs, id, path := writeModule(t, "\xEF\xBB\xBFSub A()\r\n    x = 1\r\nEnd Sub\r\n")
	// смещения считаются по LF-форме без BOM
	at := source.Span{File: id, Start: 8, End: 8}
	d := diag.NewWarning(diag.SemaUndeclaredName, source.Span{File: id, Start: 12, End: 13}, "'x' is not defined").
		WithFixSuggestion(InsertText("declare x", at, "    Dim x\n", "", WithID("dim-x")))

	res, err := Apply(fs, nil, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("expected one applied fix, got %+v", res)
	}
	want := "\xEF\xBB\xBFSub A()\r\n    Dim x\r\n    x = 1\r\nEnd Sub\r\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("file content:\n%q\nwant:\n%q", got, want)
	}
}

func TestApplyCombinesEditsInOneFile(t *testing.T) {
	fs, id, path := writeModule(t, "a = b\n")
	first := diag.NewError(diag.SemaUndeclaredName, source.Span{File: id, Start: 0, End: 1}, "a").
		WithFixSuggestion(ReplaceSpan("rename a", source.Span{File: id, Start: 0, End: 1}, "alpha", "a", WithID("a")))
	second := diag.NewError(diag.SemaUndeclaredName, source.Span{File: id, Start: 4, End: 5}, "b").
		WithFixSuggestion(ReplaceSpan("rename b", source.Span{File: id, Start: 4, End: 5}, "beta", "b", WithID("b")))

	res, err := Apply(fs, nil, []diag.Diagnostic{second, first}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || res.Applied[0].ID != "a" {
		t.Fatalf("expected both fixes in source order, got %+v", res.Applied)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("unexpected file changes %+v", res.FileChanges)
	}
	if got := readFile(t, path); got != "alpha = beta\n" {
		t.Fatalf("unexpected content %q", got)
	}
}
