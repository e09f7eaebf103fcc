// Package diag defines the diagnostic model shared by the parser, the scope
// graph, the workspace and the CLI.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     (SYN2001, SEM3001 ...).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages (related information in LSP).
//   - Fixes – ready Fix records, rarely used directly.
//   - Action/Anchor – an ActionFactory that builds a fix-it on demand and the
//     span it is anchored to.
//
// # Fix-it actions
//
// A diagnostic type owns its fix-it logic: the producer attaches an
// ActionFactory when it creates the diagnostic, and internal/fix.Registry keeps
// the first factory seen for each Code. The LSP codeAction handler and
// `basil fix` ask the registry for a Fix by diagnostic, so no central table has
// to list every code.
//
// Fix itself is data-only: Title, Kind, Applicability, IsPreferred and a list
// of TextEdit (Span + NewText, optional OldText guard). A Thunk defers edit
// construction until MaterializeFixes is called.
//
// # Emitting diagnostics
//
// Producers that do not store diagnostics themselves use a Reporter. The
// ReportBuilder helpers (ReportError/ReportWarning/ReportInfo) chain WithNote /
// WithAction before Emit. BagReporter aggregates into a Bag, which supports
// sorting, deduplication and filtering.
//
// Package diag does not format for terminals (see internal/diagfmt) and does
// not apply edits (see internal/fix). FormatShortDiagnostics is the one
// renderer kept here because golden tests across packages depend on it.
package diag
