package token

import (
	"strings"

	"basil/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, DateLit, KwTrue, KwFalse, KwNothing, KwEmpty, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or a keyword.
// Member names after '.' may be keywords (`obj.Type`, `rs.End`).
func (t Token) IsWord() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// Is reports whether the token is the word w, ignoring case.
// Used for contextual words such as Get, Explicit or Error.
func (t Token) Is(w string) bool {
	return t.IsWord() && strings.EqualFold(t.Text, w)
}

// Name returns identifier text without its type-declaration suffix (`s$` -> `s`).
func (t Token) Name() string {
	if t.Kind != Ident || t.Text == "" {
		return t.Text
	}
	switch t.Text[len(t.Text)-1] {
	case '$', '%', '&', '!', '#', '@', '^':
		return t.Text[:len(t.Text)-1]
	}
	return t.Text
}
