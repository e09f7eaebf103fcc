package lexer_test

import (
	"testing"

	"basil/internal/lexer"
	"basil/internal/source"
	"basil/internal/token"
)

// testReporter собирает все ошибки, полученные от лексера
type testReporter struct {
	msgs  []string
	spans []source.Span
}

func (r *testReporter) Report(span source.Span, msg string) {
	r.msgs = append(r.msgs, msg)
	r.spans = append(r.spans, span)
}

// lexAll создаёт лексер для тестовой строки и возвращает все токены без EOF
func lexAll(t *testing.T, src string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bas", []byte(src))
	rep := &testReporter{}
	toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", last.Kind)
	}
	return toks[:len(toks)-1], rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, rep := lexAll(t, src)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	if len(rep.msgs) != 0 {
		t.Fatalf("%q: unexpected lexer errors %v", src, rep.msgs)
	}
	return toks
}

func TestDeclarationLine(t *testing.T) {
	toks := expectKinds(t, "Private Const MAX_ROWS As Long = 100\n",
		token.KwPrivate, token.KwConst, token.Ident, token.KwAs, token.Ident, token.Eq, token.IntLit, token.Newline)
	if toks[2].Text != "MAX_ROWS" {
		t.Fatalf("unexpected ident text %q", toks[2].Text)
	}
	if toks[1].Span.Start != 8 || toks[1].Span.End != 13 {
		t.Fatalf("unexpected span for Const: %+v", toks[1].Span)
	}
}

func TestKeywordsKeepOriginalCase(t *testing.T) {
	toks := expectKinds(t, "END SUB", token.KwEnd, token.KwSub)
	if toks[0].Text != "END" {
		t.Fatalf("Text must be the source slice, got %q", toks[0].Text)
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	toks := expectKinds(t, "x = 1 ' set x\nRem whole line\ny = 2",
		token.Ident, token.Eq, token.IntLit, token.Newline, token.Newline, token.Ident, token.Eq, token.IntLit)

	nl := toks[3]
	found := false
	for _, tv := range nl.Leading {
		if tv.Kind == token.TriviaComment && tv.Text == "' set x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected comment trivia before newline, got %+v", nl.Leading)
	}
	if len(toks[4].Leading) == 0 || toks[4].Leading[0].Kind != token.TriviaRem {
		t.Fatalf("expected Rem trivia, got %+v", toks[4].Leading)
	}
}

func TestLineContinuation(t *testing.T) {
	toks := expectKinds(t, "Call Foo(a, _\n    b)\n",
		token.KwCall, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen, token.Newline)
	hasCont := false
	for _, tv := range toks[5].Leading {
		if tv.Kind == token.TriviaContinuation {
			hasCont = true
		}
	}
	if !hasCont {
		t.Fatalf("expected continuation trivia on 'b', got %+v", toks[5].Leading)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"3.14", token.FloatLit},
		{".5", token.FloatLit},
		{"1E-3", token.FloatLit},
		{"&HFF", token.IntLit},
		{"&O17", token.IntLit},
		{"10&", token.IntLit},
		{"2#", token.FloatLit},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.src, tc.kind)
		if toks[0].Text != tc.src {
			t.Fatalf("%q: number text = %q", tc.src, toks[0].Text)
		}
	}
}

func TestStringsAndDates(t *testing.T) {
	toks := expectKinds(t, `s = "say ""hi""" & #1/2/2024#`,
		token.Ident, token.Eq, token.StringLit, token.Amp, token.DateLit)
	if toks[2].Text != `"say ""hi"""` {
		t.Fatalf("unexpected string text %q", toks[2].Text)
	}
}

func TestTypeSuffix(t *testing.T) {
	toks := expectKinds(t, "name$ = Left$(s, 1)",
		token.Ident, token.Eq, token.Ident, token.LParen, token.Ident, token.Comma, token.IntLit, token.RParen)
	if toks[0].Name() != "name" || toks[2].Name() != "Left" {
		t.Fatalf("suffix not stripped: %q %q", toks[0].Name(), toks[2].Name())
	}
}

func TestOperators(t *testing.T) {
	expectKinds(t, "a <> b <= c >= d : e := f \\ g",
		token.Ident, token.NotEq, token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident,
		token.Colon, token.Ident, token.ColonEq, token.Ident, token.Backslash, token.Ident)
}

func TestErrorsDoNotStopLexing(t *testing.T) {
	toks, rep := lexAll(t, "x = \"open\ny = 1 ` z")
	if len(rep.msgs) != 2 {
		t.Fatalf("expected 2 lexer errors, got %v", rep.msgs)
	}
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Eq, token.Invalid, token.Newline, token.Ident, token.Eq, token.IntLit, token.Invalid, token.Ident}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("peek.bas", []byte("Dim x"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Kind != token.KwDim || lx.Next().Kind != token.KwDim {
		t.Fatal("Peek must return the same token as the following Next")
	}
	if lx.Next().Kind != token.Ident || lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("expected Ident then EOF forever")
	}
}
