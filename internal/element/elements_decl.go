package element

import (
	"basil/internal/diag"
	"basil/internal/scope"
	"basil/internal/source"
)

// ModuleElement is the root element of a document: a standard or class module.
type ModuleElement struct {
	Base
	Kind scope.Kind

	explicit bool
	anchor   source.Span
	hints    []diag.Diagnostic
	all      []Element
}

// Explicit reports whether the module declares Option Explicit.
func (m *ModuleElement) Explicit() bool { return m.explicit }

// OptionAnchor is where an Option statement belongs: after the header and attributes.
func (m *ModuleElement) OptionAnchor() source.Span { return m.anchor }

// Elements returns every element of the document in creation order, the module first.
func (m *ModuleElement) Elements() []Element { return m.all }

// ProcedureElement is a Sub, Function, Property or Declare statement.
type ProcedureElement struct {
	Base
	Kind    scope.Kind
	Assign  scope.AssignmentKind // аксессор свойства
	Public  bool
	Static  bool
	Declare bool

	anchor source.Span
}

// BodyAnchor is the first statement of the body, or the End line of an empty body.
func (p *ProcedureElement) BodyAnchor() source.Span { return p.anchor }

// VariableRole distinguishes the declarations VariableElement stands for.
type VariableRole uint8

const (
	RoleVariable VariableRole = iota
	RoleParameter
	RoleConstant
	RoleEnumMember
)

// VariableElement is a Dim/Public/Private item, a parameter, a constant or an enum member.
type VariableElement struct {
	Base
	Role     VariableRole
	Assign   scope.AssignmentKind
	Public   bool
	Static   bool
	TypeName string
}

// TypeElement is a user-defined Type or an Enum.
type TypeElement struct {
	Base
	Enum   bool
	Public bool
}

// FieldElement is a member of a user-defined Type. Members are reached only
// through a variable of the type, so they get no scope item.
type FieldElement struct {
	Base
	TypeName string
}
