package diag

import "basil/internal/source"

// Reporter receives diagnostics from a producer. BagReporter collects them,
// DedupReporter drops repeats, ReporterFunc adapts a closure.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder assembles one diagnostic and hands it to a Reporter on Emit.
// All methods are no-ops on a nil builder.
type ReportBuilder struct {
	to      Reporter
	diag    Diagnostic
	emitted bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, diag: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) update(f func(Diagnostic) Diagnostic) *ReportBuilder {
	if b != nil {
		b.diag = f(b.diag)
	}
	return b
}

// WithNote adds related information (a declaration site, the enclosing procedure).
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithNote(sp, msg) })
}

func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFix(title, edits...) })
}

func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFixSuggestion(fix) })
}

// WithAction attaches a fix-it factory anchored at anchor; see fix.Registry.
func (b *ReportBuilder) WithAction(anchor source.Span, action ActionFactory) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithAction(anchor, action) })
}

// Emit reports the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.to != nil {
		b.to.Report(b.diag)
	}
}

// Diagnostic returns what Emit would report.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter adds to Bag, respecting its limit.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }
