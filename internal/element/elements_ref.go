package element

import (
	"basil/internal/scope"
	"basil/internal/source"
)

// ReferenceElement is a use of a name: the head of a name expression or a type name.
type ReferenceElement struct {
	Base
	Assign scope.AssignmentKind

	anchor source.Span
}

// Anchor implements scope.Anchored: where a missing declaration should be inserted.
func (r *ReferenceElement) Anchor() source.Span { return r.anchor }
