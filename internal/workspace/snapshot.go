package workspace

import (
	"sort"

	"basil/internal/diag"
	"basil/internal/element"
	"basil/internal/fix"
	"basil/internal/source"
)

// Snapshot is the immutable analysis result of one document version.
// Readers get it from Workspace.Snapshot or Workspace.Wait and never lock.
type Snapshot struct {
	URI        string
	Version    int32
	Generation uint64 // номер сборки графа
	// Skipped is set when the document exceeded the line ceiling.
	Skipped bool

	file        *source.File
	diagnostics []diag.Diagnostic
	symbols     []element.Symbol
	folds       []element.FoldRange
	tokens      []element.SemanticToken
	actions     *fix.Registry
}

// File returns the source the snapshot was computed from.
func (s *Snapshot) File() *source.File { return s.file }

// Diagnostics returns parse and semantic diagnostics sorted by position.
func (s *Snapshot) Diagnostics() []diag.Diagnostic {
	return append([]diag.Diagnostic(nil), s.diagnostics...)
}

func (s *Snapshot) Symbols() []element.Symbol {
	return append([]element.Symbol(nil), s.symbols...)
}

func (s *Snapshot) FoldRanges() []element.FoldRange {
	return append([]element.FoldRange(nil), s.folds...)
}

// SemanticTokens returns the LSP encoding of the tokens inside rng, or of all
// tokens when rng is nil: five integers per token, line and start relative to
// the previous token.
func (s *Snapshot) SemanticTokens(rng *source.Range) []uint32 {
	out := make([]uint32, 0, len(s.tokens)*5)
	prevLine, prevChar := 0, 0
	for _, t := range s.tokens {
		if rng != nil && !tokenInRange(t, *rng) {
			continue
		}
		deltaLine := t.Line - prevLine
		deltaChar := t.Char
		if deltaLine == 0 {
			deltaChar = t.Char - prevChar
		}
		out = append(out,
			uint32(deltaLine), // #nosec G115 -- tokens are sorted, deltas are non-negative
			uint32(deltaChar), // #nosec G115
			uint32(t.Length),  // #nosec G115 -- length is checked positive
			uint32(t.Type),
			uint32(t.Modifiers),
		)
		prevLine, prevChar = t.Line, t.Char
	}
	return out
}

func tokenInRange(t element.SemanticToken, rng source.Range) bool {
	start := source.Position{Line: t.Line, Character: t.Char}
	end := source.Position{Line: t.Line, Character: t.Char + t.Length}
	return rng.Start.Before(end) && start.Before(rng.End)
}

// DiagnosticAction builds the registered fix-it for d, nil when none applies.
func (s *Snapshot) DiagnosticAction(d *diag.Diagnostic) *diag.Fix {
	return s.actions.GetDiagnosticAction(d, s.URI)
}

// buildSnapshot collects every capability of a bound document. It runs under
// the writer lock, right after Build.
func buildSnapshot(d *document, generation uint64, actions *fix.Registry) *Snapshot {
	s := &Snapshot{
		URI:        d.uri,
		Version:    d.version,
		Generation: generation,
		Skipped:    d.skipped,
		file:       d.file,
		actions:    actions,
	}
	if d.skipped || d.module == nil {
		return s
	}
	// лексер и парсер могут сообщить об одном месте дважды
	rep := diag.NewDedupReporter(diag.ReporterFunc(func(item diag.Diagnostic) {
		s.diagnostics = append(s.diagnostics, item)
	}))
	for _, e := range d.tree.Errors {
		diag.ReportError(rep, diag.SynParseError, e.Span, parseErrorMessage(e.Msg, e.Text)).Emit()
	}
	element.Walk(d.module, func(el element.Element) {
		for _, item := range el.Diagnostics().Evaluate() {
			rep.Report(item)
		}
		if c := el.SymbolInformation(); c != nil {
			s.symbols = append(s.symbols, c.Symbol())
		}
		if c := el.FoldingRange(); c != nil {
			if r, ok := c.Range(); ok {
				s.folds = append(s.folds, r)
			}
		}
		if t, ok := el.SemanticToken().Token(); ok {
			s.tokens = append(s.tokens, t)
		}
	})
	diag.SortDiagnostics(s.diagnostics)
	s.tokens = sortTokens(s.tokens)
	return s
}

func parseErrorMessage(msg, text string) string {
	if text == "" {
		return msg
	}
	return msg + ": '" + text + "'"
}

// sortTokens orders tokens by position and drops tokens starting where a previous one does.
func sortTokens(tokens []element.SemanticToken) []element.SemanticToken {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].Char < tokens[j].Char
	})
	out := tokens[:0]
	for _, t := range tokens {
		if n := len(out); n > 0 && out[n-1].Line == t.Line && out[n-1].Char == t.Char {
			continue
		}
		out = append(out, t)
	}
	return out
}
