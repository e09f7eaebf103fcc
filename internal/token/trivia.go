package token

import "basil/internal/source"

// TriviaKind classifies non-significant source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaComment
	TriviaRem
	TriviaContinuation // " _" + перевод строки
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaComment:
		return "comment"
	case TriviaRem:
		return "rem"
	case TriviaContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}
