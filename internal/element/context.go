package element

import (
	"basil/internal/source"
	"basil/internal/syntax"
)

// Document is one parsed source file as seen by elements.
type Document struct {
	URI  string
	Tree *syntax.Tree
}

// File returns the backing source file.
func (d *Document) File() *source.File {
	if d == nil || d.Tree == nil {
		return nil
	}
	return d.Tree.File
}

// Context pairs a parse-tree node with its document.
type Context struct {
	Doc  *Document
	Node *syntax.Node
}

// Span returns the half-open byte span of the node.
// Malformed nodes yield a zero-width span at their start.
func (c Context) Span() source.Span {
	if c.Doc == nil || c.Doc.Tree == nil {
		return source.Span{}
	}
	return c.Doc.Tree.Span(c.Node)
}

// Range returns the node's editor range (0-based lines, UTF-16 columns).
func (c Context) Range() source.Range {
	return c.rangeOf(c.Span())
}

func (c Context) rangeOf(sp source.Span) source.Range {
	f := c.Doc.File()
	if f == nil {
		return source.Range{}
	}
	return f.Range(sp)
}

// Text returns the literal source of the node.
func (c Context) Text() string {
	if c.Doc == nil || c.Doc.Tree == nil {
		return ""
	}
	return c.Doc.Tree.Text(c.Node)
}

// TrailingLineEndingCount counts line terminators ending the node.
func (c Context) TrailingLineEndingCount() int {
	return syntax.TrailingNewlines(c.Node)
}
