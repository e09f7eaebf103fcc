// Package token defines lexical token kinds and trivia for the basil analyzer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Keywords are case-insensitive; Token.Text keeps the author's casing.
//   - Comments (' and Rem) and line continuations (" _" + newline) are
//     Leading trivia and never appear in the main token stream.
//   - Newline is a significant token: BASIC statements end at line breaks.
//   - Contextual words (Get, Explicit, Compare, Base, Error, Step ...) are
//     identifiers; the parser recognises them by text.
package token
