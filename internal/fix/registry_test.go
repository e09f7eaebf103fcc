package fix

import (
	"testing"

	"basil/internal/diag"
	"basil/internal/source"
)

func TestRegistryRegistersOncePerCode(t *testing.T) {
	reg := NewRegistry(source.NewFileSet())

	first := diag.Fix{Title: "first"}
	second := diag.Fix{Title: "second"}
	d1 := diag.NewError(diag.SemaUndeclaredName, source.Span{}, "a").
		WithAction(source.Span{}, func(diag.FixBuildContext, *diag.Diagnostic) *diag.Fix { f := first; return &f })
	d2 := diag.NewError(diag.SemaUndeclaredName, source.Span{}, "b").
		WithAction(source.Span{}, func(diag.FixBuildContext, *diag.Diagnostic) *diag.Fix { f := second; return &f })

	if !reg.RegisterDiagnosticAction(&d1) {
		t.Fatalf("first registration must succeed")
	}
	if reg.RegisterDiagnosticAction(&d2) {
		t.Fatalf("second registration for the same code must be a no-op")
	}
	if reg.Len() != 1 || !reg.Registered(diag.SemaUndeclaredName) {
		t.Fatalf("unexpected registry state, len=%d", reg.Len())
	}
	got := reg.GetDiagnosticAction(&d2, "file:///m.bas")
	if got == nil || got.Title != "first" {
		t.Fatalf("expected the first factory to win, got %+v", got)
	}
	if got.ID == "" {
		t.Fatalf("registry must assign an id")
	}
}

func TestRegistryIgnoresIncompleteDiagnostics(t *testing.T) {
	reg := NewRegistry(nil)
	noAction := diag.NewError(diag.SemaDuplicateDeclaration, source.Span{}, "dup")
	if reg.RegisterDiagnosticAction(&noAction) {
		t.Fatalf("diagnostic without factory must not register")
	}
	noCode := diag.Diagnostic{Action: func(diag.FixBuildContext, *diag.Diagnostic) *diag.Fix { return nil }}
	if reg.RegisterDiagnosticAction(&noCode) {
		t.Fatalf("diagnostic without code must not register")
	}
	if reg.GetDiagnosticAction(&noAction, "") != nil {
		t.Fatalf("unregistered code must yield nil")
	}

	var nilReg *Registry
	if nilReg.GetDiagnosticAction(&noAction, "") != nil || nilReg.Len() != 0 {
		t.Fatalf("nil registry must be inert")
	}
}

func TestDeclareNameAction(t *testing.T) {
	fs := source.NewFileSet()
	src := "Sub A()\n    x% = 1\nEnd Sub\n"
	id := fs.AddVirtual("Module1.bas", []byte(src))
	d := diag.NewWarning(diag.SemaUndeclaredName, source.Span{File: id, Start: 12, End: 14}, "'x' is not defined").
		WithAction(source.Span{File: id, Start: 12, End: 12}, DeclareName)

	reg := NewRegistry(fs)
	reg.RegisterDiagnosticAction(&d)
	f := reg.GetDiagnosticAction(&d, "Module1.bas")
	if f == nil {
		t.Fatalf("expected a fix")
	}
	if f.Title != "Declare 'x'" || !f.IsPreferred {
		t.Fatalf("unexpected fix %+v", f)
	}
	if e := f.Edits[0]; e.Span.Start != 8 || e.NewText != "    Dim x\n" {
		t.Fatalf("unexpected edit %+v", e)
	}
}

func TestAddOptionExplicitAction(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Module1.bas", []byte("Sub A()\nEnd Sub"))
	atEnd := source.Span{File: id, Start: 15, End: 15}
	d := diag.New(diag.SevInfo, diag.SemaMissingOptionExplicit, source.Span{File: id}, "missing").
		WithAction(atEnd, AddOptionExplicit)

	f := AddOptionExplicit(diag.FixBuildContext{FileSet: fs}, &d)
	if f == nil || f.Kind != diag.FixKindSourceAction {
		t.Fatalf("unexpected fix %+v", f)
	}
	if got := f.Edits[0].NewText; got != "\nOption Explicit\n" {
		t.Fatalf("expected leading newline at EOF without terminator, got %q", got)
	}
}
