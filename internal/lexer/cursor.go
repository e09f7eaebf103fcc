package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"basil/internal/source"
)

// Cursor — байтовая позиция внутри одного файла.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor creates a cursor over the whole content of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, end: end}
}

// EOF reports whether the cursor has consumed the whole file.
func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.end {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Prev returns the byte just before the cursor, or 0 at the start.
func (c *Cursor) Prev() byte {
	if c.Off == 0 {
		return 0
	}
	return c.File.Content[c.Off-1]
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatWhile consumes bytes while keep holds and returns how many it took.
func (c *Cursor) EatWhile(keep func(byte) bool) int {
	n := 0
	for !c.EOF() && keep(c.File.Content[c.Off]) {
		c.Off++
		n++
	}
	return n
}

// SkipLine moves to the next '\n' without consuming it.
func (c *Cursor) SkipLine() {
	for !c.EOF() && c.File.Content[c.Off] != '\n' {
		c.Off++
	}
}

// AtContinuation reports a VBA line continuation at the cursor: '_' preceded
// by a blank and followed only by blanks up to the end of the line.
func (c *Cursor) AtContinuation() bool {
	if c.Peek() != '_' || !isBlank(c.Prev()) {
		return false
	}
	for i := c.Off + 1; i < c.end; i++ {
		switch b := c.File.Content[i]; {
		case b == '\n':
			return true
		case !isBlank(b):
			return false
		}
	}
	return true
}

// Mark — сохранённая позиция для SpanFrom/Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span from m to the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// isBlank: пробел, табуляция и одиночный '\r' (CRLF уже нормализован).
func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }
