package element

import (
	"basil/internal/scope"
	"basil/internal/source"
)

// Element is a syntax element: one parse-tree node with attached capabilities.
type Element interface {
	Context() Context
	Parent() Element
	Children() []Element
	Identifier() *IdentifierCapability
	Diagnostics() *DiagnosticCapability
	SemanticToken() *SemanticTokenCapability
	FoldingRange() *FoldingRangeCapability
	SymbolInformation() *SymbolInformationCapability
	// Item is the scope item registered for the element, if any.
	Item() scope.ItemID

	base() *Base
}

// Base carries the state shared by every element. It also implements
// scope.Origin, so the graph can see an element without importing this package.
type Base struct {
	ctx      Context
	ident    *IdentifierCapability
	parent   Element
	children []Element

	diags  *DiagnosticCapability
	token  *SemanticTokenCapability
	fold   *FoldingRangeCapability
	symbol *SymbolInformationCapability
	item   scope.ItemID
}

func (b *Base) Context() Context                                { return b.ctx }
func (b *Base) Parent() Element                                 { return b.parent }
func (b *Base) Children() []Element                             { return b.children }
func (b *Base) Identifier() *IdentifierCapability               { return b.ident }
func (b *Base) Diagnostics() *DiagnosticCapability              { return b.diags }
func (b *Base) SemanticToken() *SemanticTokenCapability         { return b.token }
func (b *Base) FoldingRange() *FoldingRangeCapability           { return b.fold }
func (b *Base) SymbolInformation() *SymbolInformationCapability { return b.symbol }
func (b *Base) Item() scope.ItemID                              { return b.item }
func (b *Base) base() *Base                                     { return b }

// URI implements scope.Origin.
func (b *Base) URI() string { return b.ctx.Doc.URI }

// Name implements scope.Origin.
func (b *Base) Name() string {
	if b.ident == nil {
		return UnknownElement
	}
	return b.ident.Name()
}

// NameSpan implements scope.Origin.
func (b *Base) NameSpan() source.Span {
	if b.ident == nil {
		return b.ctx.Span()
	}
	return b.ident.Span()
}

// Span implements scope.Origin.
func (b *Base) Span() source.Span { return b.ctx.Span() }

// module returns the module element the element belongs to.
func (b *Base) module() *ModuleElement {
	for p := b.parent; p != nil; p = p.Parent() {
		if m, ok := p.(*ModuleElement); ok {
			return m
		}
	}
	return nil
}

// Walk visits el and its descendants depth-first.
func Walk(el Element, fn func(Element)) {
	if el == nil {
		return
	}
	fn(el)
	for _, c := range el.Children() {
		Walk(c, fn)
	}
}
