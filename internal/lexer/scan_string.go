package lexer

import (
	"basil/internal/token"
)

// "..." — удвоенная кавычка "" экранирует кавычку. Перевод строки внутри — ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			if lx.try2('"', '"') {
				continue
			}
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// #...# — isDateStart уже гарантировал закрывающую '#' на этой строке.
func (lx *Lexer) scanDate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '#' {
		lx.cursor.Bump()
	}
	lx.cursor.Eat('#')
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.DateLit, Span: sp, Text: lx.text(sp)}
}
