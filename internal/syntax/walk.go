package syntax

// Listener receives enter/exit notifications for every node in depth-first order.
type Listener interface {
	Enter(n *Node)
	Exit(n *Node)
}

// Walk drives l over the tree rooted at t.Root.
func Walk(t *Tree, l Listener) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, l)
}

func walk(n *Node, l Listener) {
	l.Enter(n)
	for _, c := range n.Children {
		walk(c, l)
	}
	l.Exit(n)
}

// Inspect calls fn for n and its descendants; returning false skips the subtree.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, fn)
	}
}

// TrailingNewlines counts the Newline terminals that end n, following the
// rightmost descendant chain.
func TrailingNewlines(n *Node) int {
	count, _ := trailingNewlines(n)
	return count
}

// trailingNewlines returns the count and whether n consisted only of newlines.
func trailingNewlines(n *Node) (int, bool) {
	if n == nil {
		return 0, true
	}
	if n.IsTerminal() {
		if n.IsNewline() {
			return 1, true
		}
		return 0, false
	}
	total := 0
	for i := len(n.Children) - 1; i >= 0; i-- {
		c, all := trailingNewlines(n.Children[i])
		total += c
		if !all {
			return total, false
		}
	}
	return total, true
}
