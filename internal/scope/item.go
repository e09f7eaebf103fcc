package scope

import (
	"basil/internal/diag"
	"basil/internal/source"
)

// Origin is the syntax element an item was created from.
type Origin interface {
	URI() string
	Name() string
	NameSpan() source.Span
	Span() source.Span
}

// Anchored origins provide the insertion point for declaration fixes.
type Anchored interface {
	Anchor() source.Span
}

// declState is carried only by declarations.
type declState struct {
	public    bool
	backLinks []ItemID
}

// refState is carried only by references.
type refState struct {
	link ItemID
}

// Item is one node of the scope graph.
type Item struct {
	id       ItemID
	kind     Kind
	assign   AssignmentKind
	parent   ItemID
	origin   Origin
	explicit string // явное имя, перекрывает origin.Name()

	dirty       bool
	invalidated bool
	strict      bool // Option Explicit, только у модулей

	cats [numCategories]*nameMap
	decl *declState
	ref  *refState

	// слоты диагностик: duplicate заполняет проход родителя,
	// shadow и resolve — проход самого элемента.
	dupDiag     *diag.Diagnostic
	shadowDiag  *diag.Diagnostic
	resolveDiag *diag.Diagnostic
}

func (it *Item) ID() ItemID                 { return it.id }
func (it *Item) Kind() Kind                 { return it.kind }
func (it *Item) Assignment() AssignmentKind { return it.assign }
func (it *Item) Parent() ItemID             { return it.parent }
func (it *Item) Origin() Origin             { return it.origin }
func (it *Item) Dirty() bool                { return it.dirty }
func (it *Item) Invalidated() bool          { return it.invalidated }

// Name returns the explicit name or the origin's identifier.
func (it *Item) Name() string {
	if it.explicit != "" {
		return it.explicit
	}
	if it.origin == nil {
		return ""
	}
	return it.origin.Name()
}

// URI returns the document the item came from; empty for the project.
func (it *Item) URI() string {
	if it.origin == nil {
		return ""
	}
	return it.origin.URI()
}

// NameSpan returns the identifier span, falling back to the full span.
func (it *Item) NameSpan() source.Span {
	if it.origin == nil {
		return source.Span{}
	}
	if sp := it.origin.NameSpan(); !sp.Empty() {
		return sp
	}
	return it.origin.Span()
}

// IsDeclaration reports whether the item carries declaration state.
func (it *Item) IsDeclaration() bool { return it.decl != nil }

// IsPublic reports project-wide visibility; always false for references.
func (it *Item) IsPublic() bool { return it.decl != nil && it.decl.public }

// Link returns the resolved declaration of a reference.
func (it *Item) Link() ItemID {
	if it.ref == nil {
		return NoItem
	}
	return it.ref.link
}

// BackLinks returns the references linked to a declaration.
func (it *Item) BackLinks() []ItemID {
	if it.decl == nil {
		return nil
	}
	return append([]ItemID(nil), it.decl.backLinks...)
}

// Explicit reports Option Explicit on a module item.
func (it *Item) Explicit() bool { return it.strict }

// Diagnostics returns a copy of the item's diagnostic slots.
func (it *Item) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range [...]*diag.Diagnostic{it.dupDiag, it.shadowDiag, it.resolveDiag} {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// Children returns the items of one category in insertion order.
func (it *Item) Children(cat Category) []ItemID {
	if cat >= numCategories {
		return nil
	}
	var out []ItemID
	it.cats[cat].each(func(_ string, ids []ItemID) {
		out = append(out, ids...)
	})
	return out
}

func (it *Item) category(cat Category) *nameMap {
	if it.cats[cat] == nil {
		it.cats[cat] = newNameMap()
	}
	return it.cats[cat]
}

// Spec describes an item to register.
type Spec struct {
	Kind   Kind
	Assign AssignmentKind
	Public bool
	Name   string // явное имя; пусто — имя из Origin
	Origin Origin
}
