package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"basil/internal/source"
	"basil/internal/token"
)

// TriviaJSON is one piece of leading trivia in the token dump.
type TriviaJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// TokenJSON is a token together with its editor range (0-based, UTF-16).
type TokenJSON struct {
	Kind    string       `json:"kind"`
	Class   string       `json:"class"`
	Text    string       `json:"text,omitempty"`
	Span    source.Span  `json:"span"`
	Range   source.Range `json:"range"`
	Leading []TriviaJSON `json:"leading,omitempty"`
}

// tokenClass groups kinds the way the highlighter sees them.
func tokenClass(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "eof"
	case tok.Kind == token.Newline:
		return "newline"
	case tok.IsLiteral():
		return "literal"
	case tok.IsKeyword():
		return "keyword"
	case tok.IsIdent():
		return "ident"
	default:
		return "punct"
	}
}

// FormatTokensPretty prints one token per line: index, kind, text, the
// 1-based span and a summary of leading trivia. Comments show their text.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%4d  %-8s %-14s", i+1, tokenClass(tok), tok.Kind.String())
		if tok.Text != "" && tok.Kind != token.Newline {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if len(tok.Leading) > 0 {
			parts := make([]string, 0, len(tok.Leading))
			for _, tr := range tok.Leading {
				switch tr.Kind {
				case token.TriviaComment, token.TriviaRem:
					parts = append(parts, fmt.Sprintf("%s %q", tr.Kind, strings.TrimRight(tr.Text, "\r")))
				default:
					parts = append(parts, tr.Kind.String())
				}
			}
			line += " (leading: " + strings.Join(parts, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the token stream as a JSON array. Ranges use the
// same coordinates the language server sends to editors.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	out := make([]TokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		item := TokenJSON{
			Kind:  tok.Kind.String(),
			Class: tokenClass(tok),
			Text:  tok.Text,
			Span:  tok.Span,
		}
		if f := fs.Get(tok.Span.File); f != nil {
			item.Range = f.Range(tok.Span)
		}
		for _, tr := range tok.Leading {
			tj := TriviaJSON{Kind: tr.Kind.String()}
			if tr.Kind != token.TriviaSpace {
				tj.Text = tr.Text
			}
			item.Leading = append(item.Leading, tj)
		}
		out = append(out, item)
		if tok.Kind == token.EOF {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
