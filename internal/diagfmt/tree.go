package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"basil/internal/source"
	"basil/internal/syntax"
)

// TreeNodeJSON is one parse-tree node in `basil parse --format json`.
type TreeNodeJSON struct {
	Kind     string          `json:"kind"`
	Span     string          `json:"span"`
	Token    string          `json:"token,omitempty"`
	Text     string          `json:"text,omitempty"`
	Children []*TreeNodeJSON `json:"children,omitempty"`
}

// FormatTreePretty prints the parse tree as an indented outline. Newline
// terminals are omitted.
func FormatTreePretty(w io.Writer, tree *syntax.Tree, fs *source.FileSet) error {
	if tree == nil || tree.Root == nil {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}
	header := "Module"
	if tree.File != nil {
		header = formatPath(tree.File, fs, PathModeAuto)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return writeTreeNode(w, tree, tree.Root, fs, 1)
}

func writeTreeNode(w io.Writer, tree *syntax.Tree, n *syntax.Node, fs *source.FileSet, depth int) error {
	if n.IsNewline() {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	var err error
	if n.IsTerminal() {
		_, err = fmt.Fprintf(w, "%s%s %q (%s)\n", indent, n.Tok.Kind, n.Tok.Text, formatSpan(n.Tok.Span, fs))
		return err
	}
	if _, err = fmt.Fprintf(w, "%s%s (%s)\n", indent, n.Kind, formatSpan(tree.Span(n), fs)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := writeTreeNode(w, tree, c, fs, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// FormatTreeJSON encodes the parse tree including newline terminals.
func FormatTreeJSON(w io.Writer, tree *syntax.Tree, fs *source.FileSet) error {
	var root *TreeNodeJSON
	if tree != nil && tree.Root != nil {
		root = buildTreeJSON(tree, tree.Root, fs)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func buildTreeJSON(tree *syntax.Tree, n *syntax.Node, fs *source.FileSet) *TreeNodeJSON {
	out := &TreeNodeJSON{Kind: n.Kind.String(), Span: formatSpan(tree.Span(n), fs)}
	if n.IsTerminal() {
		out.Token = n.Tok.Kind.String()
		out.Text = n.Tok.Text
		return out
	}
	out.Children = make([]*TreeNodeJSON, 0, len(n.Children))
	for _, c := range n.Children {
		out.Children = append(out.Children, buildTreeJSON(tree, c, fs))
	}
	return out
}
