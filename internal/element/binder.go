package element

import (
	"strings"

	"basil/internal/diag"
	"basil/internal/fix"
	"basil/internal/scope"
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/token"
	"basil/internal/trace"
)

type frame struct {
	node  *syntax.Node
	el    Element
	scope scope.ItemID
	proc  *ProcedureElement
}

// binder builds the element tree of one document and registers scope items.
type binder struct {
	doc    *Document
	graph  *scope.Graph
	ctx    scope.BuildContext
	module *ModuleElement
	stack  []frame
}

// Bind walks doc once, creating elements and registering their scope items
// under the Project of g. The graph is not built; callers run g.Build after
// binding every changed document.
func Bind(doc *Document, g *scope.Graph, ctx scope.BuildContext) *ModuleElement {
	if ctx.Tracer == nil {
		ctx.Tracer = trace.Nop
	}
	span := trace.Begin(ctx.Tracer, trace.ScopeDocument, "element.bind", 0)
	b := &binder{doc: doc, graph: g, ctx: ctx}
	syntax.Walk(doc.Tree, b)
	if b.module == nil {
		span.End(doc.URI)
		return nil
	}
	b.finishModule()
	span.WithCount("elements", len(b.module.all)).End(doc.URI)
	return b.module
}

func (b *binder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

// push links el under the current frame and opens a frame for it.
func (b *binder) push(el Element, n *syntax.Node, sc scope.ItemID) {
	var proc *ProcedureElement
	if top := b.top(); top != nil {
		el.base().parent = top.el
		parent := top.el.base()
		parent.children = append(parent.children, el)
		proc = top.proc
	}
	if p, ok := el.(*ProcedureElement); ok {
		proc = p
	}
	if b.module != nil {
		b.module.all = append(b.module.all, el)
	}
	b.stack = append(b.stack, frame{node: n, el: el, scope: sc, proc: proc})
}

func (b *binder) Enter(n *syntax.Node) {
	if n.Kind != syntax.Module && b.module == nil {
		return
	}
	switch n.Kind {
	case syntax.Module:
		b.enterModule(n)
	case syntax.AttributeStmt:
		b.enterAttribute(n)
	case syntax.OptionStmt:
		b.enterOption(n)
	case syntax.SubDecl, syntax.FunctionDecl, syntax.PropertyDecl:
		b.enterProcedure(n)
	case syntax.VariableItem:
		b.enterVariable(n, RoleVariable)
	case syntax.ConstItem:
		b.enterVariable(n, RoleConstant)
	case syntax.Param:
		b.enterVariable(n, RoleParameter)
	case syntax.EnumMember:
		b.enterVariable(n, RoleEnumMember)
	case syntax.TypeDecl, syntax.EnumDecl:
		b.enterType(n)
	case syntax.TypeMember:
		b.enterField(n)
	case syntax.TypeName:
		b.enterReference(n, scope.AssignNone)
	case syntax.NameExpr:
		b.enterReference(n, assignmentFor(n))
	default:
		if words, ok := blockWords[n.Kind]; ok {
			b.enterBlock(n, words)
		}
	}
}

func (b *binder) Exit(n *syntax.Node) {
	if top := b.top(); top != nil && top.node == n {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *binder) context(n *syntax.Node) Context {
	return Context{Doc: b.doc, Node: n}
}

func (b *binder) identifier(ctx Context, name *syntax.Node) *IdentifierCapability {
	return NewIdentifierCapability(ctx, b.ctx.Tracer, IdentifierOptions{
		NameContext: func() *syntax.Node { return name },
	})
}

// itemDiagnostics reads the diagnostics the graph attached to an element's item.
func (b *binder) itemDiagnostics(el Element) *DiagnosticCapability {
	g := b.graph
	return NewDiagnosticCapability(func() []diag.Diagnostic {
		if it := g.Item(el.Item()); it != nil {
			return it.Diagnostics()
		}
		return nil
	})
}

func (b *binder) enterModule(n *syntax.Node) {
	m := &ModuleElement{Kind: ModuleKind(b.doc)}
	m.ctx = b.context(n)
	name, nameSpan, named := ModuleName(b.doc)
	if !named {
		nameSpan = m.ctx.Span().ZeroAt()
	}
	m.ident = NewIdentifierCapability(m.ctx, b.ctx.Tracer, IdentifierOptions{
		DefaultName:  name,
		DefaultRange: func() (source.Span, bool) { return nameSpan, true },
	})
	m.item, _ = b.graph.Register(b.graph.Root(), scope.Spec{Kind: m.Kind, Public: true, Origin: m})
	g := b.graph
	m.diags = NewDiagnosticCapability(func() []diag.Diagnostic {
		var out []diag.Diagnostic
		if it := g.Item(m.item); it != nil {
			out = append(out, it.Diagnostics()...)
		}
		return append(out, m.hints...)
	})
	kind := SymbolModule
	if m.Kind == scope.KindClass {
		kind = SymbolClass
	}
	m.symbol = NewSymbolInformationCapability(m, kind)
	b.module = m
	b.push(m, n, m.item)
}

func (b *binder) enterAttribute(n *syntax.Node) {
	top := b.top()
	a := &AttributeElement{}
	a.ctx = b.context(n)
	key := firstNode(n)
	if key != nil {
		a.Key = b.doc.Tree.Text(key)
	}
	var values []string
	for _, c := range n.Children {
		if !c.IsTerminal() && c != key {
			values = append(values, b.doc.Tree.Text(c))
		}
	}
	a.Value = strings.Join(values, ", ")
	a.ident = b.identifier(a.ctx, key)
	b.push(a, n, top.scope)
}

func (b *binder) enterOption(n *syntax.Node) {
	top := b.top()
	o := &OptionElement{}
	o.ctx = b.context(n)
	var words []string
	var name *syntax.Node
	for _, c := range n.Children[1:] {
		if !c.IsTerminal() || c.IsNewline() || c.Is(token.Colon) {
			continue
		}
		if name == nil {
			name = c
		}
		words = append(words, c.Tok.Text)
	}
	o.Option = strings.Join(words, " ")
	o.ident = b.identifier(o.ctx, name)
	if name != nil && name.Tok.Is("Explicit") && top.proc == nil {
		b.module.explicit = true
		b.graph.SetExplicit(b.module.item, true)
	}
	b.push(o, n, top.scope)
}

var procedureKinds = map[syntax.Kind]scope.Kind{
	syntax.SubDecl:      scope.KindSubroutine,
	syntax.FunctionDecl: scope.KindFunction,
	syntax.PropertyDecl: scope.KindProperty,
}

func (b *binder) enterProcedure(n *syntax.Node) {
	top := b.top()
	p := &ProcedureElement{Kind: procedureKinds[n.Kind], Assign: scope.AssignGet, Public: true}
	p.ctx = b.context(n)

	open := ""
	var name *syntax.Node
	for i := 0; i < len(n.Children); i++ {
		c := n.Children[i]
		if !c.IsTerminal() {
			break
		}
		switch c.Tok.Kind {
		case token.KwPrivate:
			p.Public = false
		case token.KwStatic:
			p.Static = true
		case token.KwSub, token.KwFunction:
			open = c.Tok.Text
		case token.KwProperty:
			open = c.Tok.Text
			if i+1 < len(n.Children) {
				next := n.Children[i+1]
				switch {
				case next.Tok != nil && next.Tok.Is("Get"):
					p.Assign = scope.AssignGet
				case next.Is(token.KwLet):
					p.Assign = scope.AssignLet
				case next.Is(token.KwSet):
					p.Assign = scope.AssignSet
				default:
					continue
				}
				open += " " + next.Tok.Text
				i++
			}
		case token.Ident:
			if open == "" {
				if c.Tok.Is("Declare") {
					p.Declare = true
				}
				continue
			}
			if name == nil {
				name = c
			}
		}
	}
	p.ident = b.identifier(p.ctx, name)
	p.anchor = procedureAnchor(b.doc.Tree, n)

	var current scope.ItemID
	p.item, current = b.graph.Register(top.scope, scope.Spec{
		Kind:   p.Kind,
		Assign: p.Assign,
		Public: p.Public,
		Origin: p,
	})
	p.diags = b.itemDiagnostics(p)

	inClass := b.module.Kind == scope.KindClass
	typ, sym := TokenFunction, SymbolFunction
	switch {
	case p.Kind == scope.KindProperty:
		typ, sym = TokenProperty, SymbolProperty
	case inClass:
		typ, sym = TokenMethod, SymbolMethod
	}
	mods := ModDeclaration
	if p.Static {
		mods |= ModStatic
	}
	p.token = NewSemanticTokenCapability(p, typ, mods, nil, 0)
	if !p.Declare {
		closeWord := "End " + strings.Fields(open + " Sub")[0]
		p.fold = NewFoldingRangeCapability(p, "region", open, closeWord)
	}
	p.symbol = NewSymbolInformationCapability(p, sym)
	b.push(p, n, current)
}

// procedureAnchor is the first statement of the body; an empty body anchors
// at the End line, a body-less Declare at the declaration itself.
func procedureAnchor(t *syntax.Tree, n *syntax.Node) source.Span {
	if body := n.Child(syntax.Block); body != nil {
		for _, c := range body.Children {
			if !c.IsTerminal() && c.Kind.IsStatement() && c.Kind != syntax.AttributeStmt {
				return t.Span(c)
			}
		}
	}
	if end := n.Terminal(token.KwEnd); end != nil {
		return t.Span(end)
	}
	return t.Span(n)
}

func (b *binder) enterVariable(n *syntax.Node, role VariableRole) {
	top := b.top()
	v := &VariableElement{Role: role}
	v.ctx = b.context(n)
	atModule := top.proc == nil
	name := declIdent(n)

	switch role {
	case RoleVariable:
		v.Public = atModule && hasModifier(n.Parent, token.KwPublic, token.KwGlobal)
		v.Static = hasModifier(n.Parent, token.KwStatic) || (top.proc != nil && top.proc.Static)
		v.Assign = variableAccess(n, name)
	case RoleConstant:
		v.Public = atModule && hasModifier(n.Parent, token.KwPublic, token.KwGlobal)
		v.Assign = scope.AssignGet
	case RoleEnumMember:
		if t, ok := top.el.(*TypeElement); ok {
			v.Public = t.Public
		}
		v.Assign = scope.AssignGet
	case RoleParameter:
		v.Assign = variableAccess(n, name)
	}
	if as := n.Child(syntax.AsClause); as != nil {
		v.TypeName = b.doc.Tree.Text(as.Child(syntax.TypeName))
	}
	v.ident = b.identifier(v.ctx, name)

	var current scope.ItemID
	v.item, current = b.graph.Register(top.scope, scope.Spec{
		Kind:   scope.KindVariable,
		Assign: v.Assign,
		Public: v.Public,
		Origin: v,
	})
	v.diags = b.itemDiagnostics(v)

	typ, mods := TokenVariable, ModDeclaration
	sym := SymbolVariable
	switch role {
	case RoleParameter:
		typ = TokenParameter
	case RoleConstant:
		mods |= ModReadonly
		sym = SymbolConstant
	case RoleEnumMember:
		typ = TokenEnumMember
		mods |= ModReadonly
		sym = SymbolEnumMember
	default:
		if atModule && b.module.Kind == scope.KindClass {
			sym = SymbolField
		}
	}
	if v.Static {
		mods |= ModStatic
	}
	v.token = NewSemanticTokenCapability(v, typ, mods, nil, 0)
	if role != RoleParameter {
		v.symbol = NewSymbolInformationCapability(v, sym)
	}
	b.push(v, n, current)
}

func (b *binder) enterType(n *syntax.Node) {
	top := b.top()
	t := &TypeElement{Enum: n.Kind == syntax.EnumDecl, Public: !hasModifier(n, token.KwPrivate)}
	t.ctx = b.context(n)
	t.ident = b.identifier(t.ctx, declIdent(n))

	var current scope.ItemID
	t.item, current = b.graph.Register(top.scope, scope.Spec{
		Kind:   scope.KindType,
		Public: t.Public,
		Origin: t,
	})
	t.diags = b.itemDiagnostics(t)

	if t.Enum {
		t.token = NewSemanticTokenCapability(t, TokenEnum, ModDeclaration, nil, 0)
		t.fold = NewFoldingRangeCapability(t, "region", "Enum", "End Enum")
		t.symbol = NewSymbolInformationCapability(t, SymbolEnum)
	} else {
		t.token = NewSemanticTokenCapability(t, TokenStruct, ModDeclaration, nil, 0)
		t.fold = NewFoldingRangeCapability(t, "region", "Type", "End Type")
		t.symbol = NewSymbolInformationCapability(t, SymbolStruct)
	}
	b.push(t, n, current)
}

func (b *binder) enterField(n *syntax.Node) {
	top := b.top()
	f := &FieldElement{}
	f.ctx = b.context(n)
	f.ident = b.identifier(f.ctx, declIdent(n))
	if as := n.Child(syntax.AsClause); as != nil {
		f.TypeName = b.doc.Tree.Text(as.Child(syntax.TypeName))
	}
	f.diags = NewDiagnosticCapability(nil)
	f.token = NewSemanticTokenCapability(f, TokenProperty, ModDeclaration, nil, 0)
	f.symbol = NewSymbolInformationCapability(f, SymbolField)
	b.push(f, n, top.scope)
}

func (b *binder) enterReference(n *syntax.Node, assign scope.AssignmentKind) {
	if n.Ancestor(syntax.AttributeStmt) != nil {
		return
	}
	name := n.Terminal(token.Ident)
	if name == nil {
		return
	}
	top := b.top()
	r := &ReferenceElement{Assign: assign}
	r.ctx = b.context(n)
	r.ident = b.identifier(r.ctx, name)
	r.anchor = b.referenceAnchor(n)

	var current scope.ItemID
	r.item, current = b.graph.Register(top.scope, scope.Spec{
		Kind:   scope.KindReference,
		Assign: assign,
		Origin: r,
	})
	r.diags = b.itemDiagnostics(r)
	r.token = NewSemanticTokenCapability(r, TokenVariable, 0, nil, 0)
	r.token.classify = b.classify(r)
	b.push(r, n, current)
}

// referenceAnchor: inside a procedure the body anchor, otherwise the enclosing
// module-level statement.
func (b *binder) referenceAnchor(n *syntax.Node) source.Span {
	if top := b.top(); top != nil && top.proc != nil {
		return top.proc.anchor
	}
	for p := n; p != nil; p = p.Parent {
		if p.Kind.IsStatement() && p.Parent != nil && p.Parent.Kind == syntax.Module {
			return b.doc.Tree.Span(p)
		}
	}
	return b.doc.Tree.Span(n)
}

// classify picks the token of a reference from what it resolved to.
func (b *binder) classify(r *ReferenceElement) func() (TokenType, TokenModifier) {
	g := b.graph
	return func() (TokenType, TokenModifier) {
		var mods TokenModifier
		if r.Assign&(scope.AssignLet|scope.AssignSet) != 0 {
			mods |= ModModification
		}
		ref := g.Item(r.item)
		if ref == nil {
			return TokenVariable, mods
		}
		target := g.Item(ref.Link())
		if target == nil {
			return TokenVariable, mods
		}
		if strings.HasPrefix(target.URI(), scope.LibraryURIPrefix) {
			mods |= ModDefaultLibrary
		}
		switch target.Kind() {
		case scope.KindFunction, scope.KindSubroutine:
			if p, ok := target.Origin().(*ProcedureElement); ok {
				if m := p.module(); m != nil && m.Kind == scope.KindClass {
					return TokenMethod, mods
				}
			}
			return TokenFunction, mods
		case scope.KindProperty:
			return TokenProperty, mods
		case scope.KindType:
			if t, ok := target.Origin().(*TypeElement); ok {
				if t.Enum {
					return TokenEnum, mods
				}
				return TokenStruct, mods
			}
			return TokenTypeName, mods
		case scope.KindClass:
			return TokenClass, mods
		case scope.KindModule, scope.KindLanguage, scope.KindApplication:
			return TokenNamespace, mods
		case scope.KindVariable:
			if v, ok := target.Origin().(*VariableElement); ok {
				switch v.Role {
				case RoleParameter:
					return TokenParameter, mods
				case RoleConstant:
					return TokenVariable, mods | ModReadonly
				case RoleEnumMember:
					return TokenEnumMember, mods | ModReadonly
				}
			}
		}
		return TokenVariable, mods
	}
}

var blockWords = map[syntax.Kind][2]string{
	syntax.IfStmt:      {"If", "End If"},
	syntax.ForStmt:     {"For", "Next"},
	syntax.ForEachStmt: {"For Each", "Next"},
	syntax.DoStmt:      {"Do", "Loop"},
	syntax.WhileStmt:   {"While", "Wend"},
	syntax.SelectStmt:  {"Select Case", "End Select"},
	syntax.WithStmt:    {"With", "End With"},
}

func (b *binder) enterBlock(n *syntax.Node, words [2]string) {
	top := b.top()
	bl := &BlockElement{Open: words[0], Close: words[1]}
	bl.ctx = b.context(n)
	bl.diags = NewDiagnosticCapability(nil)
	bl.fold = NewFoldingRangeCapability(bl, "region", bl.Open, bl.Close)
	b.push(bl, n, top.scope)
}

// finishModule adds the missing Option Explicit hint once the walk is over.
func (b *binder) finishModule() {
	m := b.module
	m.anchor = optionAnchor(b.doc.Tree)
	if m.explicit || !hasCode(b.doc.Tree.Root) {
		return
	}
	it := b.graph.Item(m.item)
	if it == nil || it.Invalidated() {
		return
	}
	d := diag.New(diag.SevInfo, diag.SemaMissingOptionExplicit, m.ident.Span(),
		"module does not declare Option Explicit").
		WithAction(m.anchor, fix.AddOptionExplicit)
	if m.ident.Span().Empty() {
		d.Primary = m.anchor
	}
	b.ctx.Actions.RegisterDiagnosticAction(&d)
	m.hints = append(m.hints, d)
}

// optionAnchor is the insertion point right after the leading header and
// attribute lines.
func optionAnchor(t *syntax.Tree) source.Span {
	var sp source.Span
	if t.File != nil {
		sp.File = t.File.ID
	}
	for _, c := range t.Root.Children {
		if c.IsTerminal() {
			continue
		}
		if c.Kind != syntax.HeaderStmt && c.Kind != syntax.AttributeStmt {
			break
		}
		end := t.Span(c).End
		sp.Start, sp.End = end, end
	}
	return sp
}

// hasCode reports whether the module holds anything beyond header, attributes and options.
func hasCode(root *syntax.Node) bool {
	for _, c := range root.Children {
		if c.IsTerminal() {
			continue
		}
		switch c.Kind {
		case syntax.HeaderStmt, syntax.AttributeStmt, syntax.OptionStmt:
			continue
		}
		return true
	}
	return false
}
