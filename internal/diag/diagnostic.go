package diag

import (
	"basil/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// ActionFactory строит fix-it для конкретной диагностики.
// Фабрика не должна захватывать состояние: регистрируется одна на код.
type ActionFactory func(ctx FixBuildContext, d *Diagnostic) *Fix

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix

	// Anchor — точка, к которой привязывается fix-it (начало оператора и т.п.).
	Anchor source.Span
	// Action — фабрика fix-it; попадает в реестр при первой регистрации кода.
	Action ActionFactory `msgpack:"-"`
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

func (d Diagnostic) WithFixSuggestion(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}

// WithAction привязывает фабрику fix-it и якорь для неё.
func (d Diagnostic) WithAction(anchor source.Span, action ActionFactory) Diagnostic {
	d.Anchor = anchor
	d.Action = action
	return d
}

// Same сравнивает диагностики без учёта фабрики (функции несравнимы).
func (d *Diagnostic) Same(other *Diagnostic) bool {
	if d.Severity != other.Severity || d.Code != other.Code || d.Message != other.Message ||
		d.Primary != other.Primary || d.Anchor != other.Anchor || len(d.Notes) != len(other.Notes) {
		return false
	}
	for i := range d.Notes {
		if d.Notes[i] != other.Notes[i] {
			return false
		}
	}
	return true
}
