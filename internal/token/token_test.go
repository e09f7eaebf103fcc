package token_test

import (
	"testing"

	"basil/internal/token"
)

func TestLookupKeywordIgnoresCase(t *testing.T) {
	cases := map[string]token.Kind{
		"Dim":        token.KwDim,
		"DIM":        token.KwDim,
		"function":   token.KwFunction,
		"ElseIf":     token.KwElseIf,
		"paramarray": token.KwParamArray,
		"Nothing":    token.KwNothing,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeywordNegative(t *testing.T) {
	// контекстные слова остаются идентификаторами
	for _, s := range []string{"Get", "Explicit", "Error", "Step", "Compare", "MsgBox", "x"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.KwElseIf.String(); got != "ElseIf" {
		t.Fatalf("KwElseIf.String() = %q", got)
	}
	if got := token.NotEq.String(); got != "<>" {
		t.Fatalf("NotEq.String() = %q", got)
	}
	if token.Ident.IsKeyword() || !token.KwDim.IsKeyword() {
		t.Fatal("IsKeyword misclassifies kinds")
	}
}

func TestTokenHelpers(t *testing.T) {
	str := token.Token{Kind: token.Ident, Text: "name$"}
	if str.Name() != "name" {
		t.Fatalf("Name() = %q", str.Name())
	}
	get := token.Token{Kind: token.Ident, Text: "GET"}
	if !get.Is("Get") {
		t.Fatal("Is must ignore case")
	}
	kw := token.Token{Kind: token.KwType, Text: "Type"}
	if !kw.IsWord() || kw.IsIdent() {
		t.Fatal("keyword must be a word but not an identifier")
	}
	if !(token.Token{Kind: token.KwNothing}).IsLiteral() {
		t.Fatal("Nothing is a literal")
	}
}
