package lexer

import (
	"fmt"

	"basil/internal/token"
)

// scanOperatorOrPunct — жадный матч двухсимвольных операторов, затем односимвольных.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch {
	case lx.try2('<', '>'):
		return emit(token.NotEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2(':', '='):
		return emit(token.ColonEq)
	}

	b := lx.cursor.Peek()
	kind, ok := singleOps[b]
	if ok {
		lx.cursor.Bump()
		return emit(kind)
	}

	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	lx.bumpRune()
	tok := emit(token.Invalid)
	lx.report(tok.Span, fmt.Sprintf("unexpected character %q", tok.Text))
	return tok
}

var singleOps = map[byte]token.Kind{
	'+':  token.Plus,
	'-':  token.Minus,
	'*':  token.Star,
	'/':  token.Slash,
	'\\': token.Backslash,
	'^':  token.Caret,
	'&':  token.Amp,
	'=':  token.Eq,
	'<':  token.Lt,
	'>':  token.Gt,
	'(':  token.LParen,
	')':  token.RParen,
	',':  token.Comma,
	'.':  token.Dot,
	'!':  token.Bang,
	':':  token.Colon,
	';':  token.Semicolon,
	'#':  token.Hash,
}
