package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/token"
)

// CheckTreeInvariants runs a minimal set of structural checks on a parse tree:
// 1) token spans are ordered, inside the file, and the stream ends with EOF
// 2) every terminal wraps exactly the token at its index
// 3) non-empty children lie inside their parent, in source order, without overlap
// 4) Parent links point back to the node that holds the child
func CheckTreeInvariants(tree *syntax.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	if err := checkTokens(tree.Tokens, tree.File); err != nil {
		return err
	}
	if tree.Root == nil {
		return fmt.Errorf("nil root")
	}
	if tree.Root.Parent != nil {
		return fmt.Errorf("root has a parent")
	}
	var firstErr error
	syntax.Inspect(tree.Root, func(n *syntax.Node) bool {
		if firstErr != nil {
			return false
		}
		firstErr = checkNode(tree, n)
		return firstErr == nil
	})
	return firstErr
}

func checkTokens(toks []token.Token, f *source.File) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("token stream ends with %s, want EOF", last.Kind)
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != f.ID {
			return fmt.Errorf("token %d span file mismatch: got=%d want=%d", i, sp.File, f.ID)
		}
		if sp.End < sp.Start || sp.End > size {
			return fmt.Errorf("token %d span %v outside content of %d bytes", i, sp, size)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d span %v overlaps previous token ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}

func checkNode(tree *syntax.Tree, n *syntax.Node) error {
	if n.IsTerminal() {
		if n.Start != n.Stop {
			return fmt.Errorf("terminal covers tokens %d..%d", n.Start, n.Stop)
		}
		if n.Start < 0 || n.Start >= len(tree.Tokens) || n.Tok != &tree.Tokens[n.Start] {
			return fmt.Errorf("terminal at %d does not point at its token", n.Start)
		}
		if len(n.Children) != 0 {
			return fmt.Errorf("terminal at %d has children", n.Start)
		}
		return nil
	}
	prevStop := -1
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%s has a nil child", n.Kind)
		}
		if c.Parent != n {
			return fmt.Errorf("%s child %s has wrong parent", n.Kind, c.Kind)
		}
		if c.IsEmpty() {
			continue
		}
		if c.Start < n.Start || c.Stop > n.Stop {
			return fmt.Errorf("%s child %s [%d..%d] outside parent [%d..%d]", n.Kind, c.Kind, c.Start, c.Stop, n.Start, n.Stop)
		}
		if c.Start <= prevStop {
			return fmt.Errorf("%s child %s starts at %d before previous sibling ends at %d", n.Kind, c.Kind, c.Start, prevStop)
		}
		prevStop = c.Stop
	}
	return nil
}
