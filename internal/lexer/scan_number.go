package lexer

import (
	"basil/internal/token"
)

// Поддержка: 0, 123, 1.5, .5, 1e-3, 1.0E+10, &H1F, &O17 и суффиксы типа (# ! @ & % ^).
// Неверные формы — репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '&' {
		lx.cursor.Bump()
		radix := lx.cursor.Bump()
		digit := isHex
		if radix == 'o' || radix == 'O' {
			digit = isOct
		}
		lx.cursor.EatWhile(digit)
		// &HFF& — суффикс Long
		lx.cursor.Eat('&')
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
	}

	lx.cursor.EatWhile(isDec)
	if lx.isNumberAfterDot() {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.cursor.EatWhile(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b2 := lx.cursor.Peek(); b2 == '+' || b2 == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(sp, "malformed exponent in numeric literal")
			lx.cursor.Reset(mark)
		} else {
			kind = token.FloatLit
			lx.cursor.EatWhile(isDec)
		}
	}

	switch lx.cursor.Peek() {
	case '#', '!', '@':
		lx.cursor.Bump()
		kind = token.FloatLit
	case '%', '^':
		lx.cursor.Bump()
	case '&':
		// 10& — Long; "10&H1" — уже следующий литерал
		if !lx.isRadixPrefix() {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
