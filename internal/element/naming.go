package element

import (
	"net/url"
	"path"
	"strings"

	"basil/internal/scope"
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/token"
)

// ModuleName returns the module name of doc: the VB_Name attribute, else the
// file base name, else scope.UnnamedModule. The span is set only for VB_Name.
func ModuleName(doc *Document) (string, source.Span, bool) {
	if doc.Tree != nil && doc.Tree.Root != nil {
		for _, c := range doc.Tree.Root.Children {
			if c.Kind != syntax.AttributeStmt {
				continue
			}
			key := c.Child(syntax.NameExpr)
			if key == nil || !key.Children[0].Tok.Is("VB_Name") {
				continue
			}
			lit := c.Child(syntax.LiteralExpr)
			if lit == nil || !lit.Children[0].Is(token.StringLit) {
				continue
			}
			sp := doc.Tree.Span(lit)
			if sp.Len() >= 2 {
				sp.Start++
				sp.End--
			}
			if name := doc.File().Text(sp); name != "" {
				return name, sp, true
			}
		}
	}
	if base := uriBaseName(doc.URI); base != "" {
		return base, source.Span{}, false
	}
	return scope.UnnamedModule, source.Span{}, false
}

func uriBaseName(uri string) string {
	if u, err := url.PathUnescape(uri); err == nil {
		uri = u
	}
	return source.BaseName(uri)
}

// ModuleKind decides between a standard module and a class module: exported
// class-like files and a `VERSION ... CLASS` header make a class.
func ModuleKind(doc *Document) scope.Kind {
	switch strings.ToLower(path.Ext(doc.URI)) {
	case ".cls", ".frm", ".dsr", ".ctl":
		return scope.KindClass
	}
	if doc.Tree != nil && doc.Tree.Root != nil {
		for _, c := range doc.Tree.Root.ChildrenOf(syntax.HeaderStmt) {
			if w := c.FirstWord(); w != nil && w.Tok.Is("VERSION") {
				for _, t := range c.Children {
					if t.IsTerminal() && t.Tok.Is("CLASS") {
						return scope.KindClass
					}
				}
			}
		}
	}
	return scope.KindModule
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "currency": true, "date": true, "decimal": true,
	"double": true, "integer": true, "long": true, "longlong": true, "longptr": true,
	"single": true, "string": true,
}

// variableAccess derives the accessor set of a declared variable: values of
// primitive type are only read and let, anything else may also be Set.
func variableAccess(decl, name *syntax.Node) scope.AssignmentKind {
	if name != nil && name.Tok.Name() != name.Tok.Text {
		return scope.AssignGet | scope.AssignLet
	}
	as := decl.Child(syntax.AsClause)
	if as == nil || as.Terminal(token.KwNew) != nil {
		return scope.AssignGet | scope.AssignLet | scope.AssignSet
	}
	tn := as.Child(syntax.TypeName)
	if w := tn.FirstWord(); w != nil && primitiveTypes[strings.ToLower(w.Tok.Text)] && len(tn.Children) == 1 {
		return scope.AssignGet | scope.AssignLet
	}
	return scope.AssignGet | scope.AssignLet | scope.AssignSet
}

// assignmentFor classifies how a name expression uses its name.
func assignmentFor(n *syntax.Node) scope.AssignmentKind {
	target := n
	if p := n.Parent; p != nil && p.Kind == syntax.CallExpr && p.Children[0] == n {
		target = p
	}
	stmt := target.Parent
	if stmt == nil {
		return scope.AssignGet
	}
	if stmt.Kind == syntax.ReDimStmt {
		return scope.AssignLet
	}
	if firstNode(stmt) != target {
		return scope.AssignGet
	}
	switch stmt.Kind {
	case syntax.LetStmt, syntax.ForStmt, syntax.ForEachStmt:
		return scope.AssignLet
	case syntax.SetStmt:
		return scope.AssignSet
	case syntax.CallStmt, syntax.ExprStmt:
		return scope.AssignCall
	}
	return scope.AssignGet
}

// firstNode returns the first non-terminal child.
func firstNode(n *syntax.Node) *syntax.Node {
	for _, c := range n.Children {
		if !c.IsTerminal() {
			return c
		}
	}
	return nil
}

// hasModifier reports whether n starts with one of the given keywords.
func hasModifier(n *syntax.Node, kinds ...token.Kind) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if !c.IsTerminal() {
			return false
		}
		for _, k := range kinds {
			if c.Is(k) {
				return true
			}
		}
	}
	return false
}

// declIdent returns the name terminal of a declaration node.
func declIdent(n *syntax.Node) *syntax.Node {
	for _, c := range n.Children {
		if !c.Is(token.Ident) {
			continue
		}
		if c.Tok.Is("WithEvents") && n.Kind == syntax.VariableItem {
			continue
		}
		return c
	}
	return nil
}
