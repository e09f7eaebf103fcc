package lexer

import (
	"basil/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t' и одиночные '\r' коалесцируются в один TriviaSpace
// - '... до \n -> TriviaComment (сам \n остаётся значимым токеном)
// - " _" + \n -> TriviaContinuation, логическая строка продолжается
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case isBlank(b):
			lx.cursor.EatWhile(isBlank)
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaSpace, Span: sp, Text: lx.text(sp)})

		case b == '\'':
			lx.cursor.SkipLine()
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaComment, Span: sp, Text: lx.text(sp)})

		case lx.cursor.AtContinuation():
			lx.cursor.Bump()
			lx.cursor.EatWhile(isBlank)
			lx.cursor.Eat('\n')
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaContinuation, Span: sp, Text: lx.text(sp)})

		default:
			return
		}
	}
}

// scanRemInto превращает уже отсканированное слово Rem и остаток строки в trivia.
func (lx *Lexer) scanRemInto(rem token.Token) {
	start := Mark(rem.Span.Start)
	lx.cursor.SkipLine()
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaRem, Span: sp, Text: lx.text(sp)})
}
