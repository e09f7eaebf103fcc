package syntax

import (
	"basil/internal/source"
	"basil/internal/token"
)

// Node is one vertex of the parse tree.
// Start and Stop are inclusive indices into Tree.Tokens; an empty node has Stop < Start.
type Node struct {
	Kind     Kind
	Start    int
	Stop     int
	Parent   *Node
	Children []*Node
	Tok      *token.Token // только для Terminal
}

// IsTerminal reports whether n wraps a single token.
func (n *Node) IsTerminal() bool { return n != nil && n.Kind == Terminal }

// IsEmpty reports whether n covers no tokens.
func (n *Node) IsEmpty() bool { return n == nil || n.Stop < n.Start }

// Is reports whether n is a terminal of token kind k.
func (n *Node) Is(k token.Kind) bool { return n.IsTerminal() && n.Tok.Kind == k }

// IsNewline reports whether n is a Newline terminal.
func (n *Node) IsNewline() bool { return n.Is(token.Newline) }

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOf returns every direct child of the given kind.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Terminal returns the first direct terminal child with token kind k.
func (n *Node) Terminal(k token.Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(k) {
			return c
		}
	}
	return nil
}

// FirstWord returns the first direct identifier or keyword terminal.
func (n *Node) FirstWord() *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.IsTerminal() && c.Tok.IsWord() {
			return c
		}
	}
	return nil
}

// LastChild returns the rightmost child or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Ancestor returns the nearest enclosing node of one of the given kinds.
func (n *Node) Ancestor(kinds ...Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		for _, k := range kinds {
			if p.Kind == k {
				return p
			}
		}
	}
	return nil
}

// Tree is the result of parsing one file.
type Tree struct {
	File   *source.File
	Tokens []token.Token
	Root   *Node
	Errors []ParseError
}

// ParseError is a structural error recorded while building the tree.
type ParseError struct {
	Span source.Span
	Msg  string
	Text string // исходный текст в месте ошибки
}

// Span returns the byte span covered by n. Empty nodes get a zero-width span at their start.
func (t *Tree) Span(n *Node) source.Span {
	if n == nil || len(t.Tokens) == 0 {
		return source.Span{File: t.fileID()}
	}
	start := clamp(n.Start, len(t.Tokens))
	if n.IsEmpty() {
		off := t.Tokens[start].Span.Start
		return source.Span{File: t.fileID(), Start: off, End: off}
	}
	stop := clamp(n.Stop, len(t.Tokens))
	return t.Tokens[start].Span.Cover(t.Tokens[stop].Span)
}

// Text returns the literal source covered by n.
func (t *Tree) Text(n *Node) string {
	if t.File == nil {
		return ""
	}
	return t.File.Text(t.Span(n))
}

func (t *Tree) fileID() source.FileID {
	if t.File == nil {
		return 0
	}
	return t.File.ID
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
