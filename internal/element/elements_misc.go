package element

// AttributeElement is an `Attribute Key = Value` line.
type AttributeElement struct {
	Base
	Key   string
	Value string
}

// OptionElement is an `Option ...` directive.
type OptionElement struct {
	Base
	Option string
}

// BlockElement is a compound statement: loops, If, Select Case, With.
type BlockElement struct {
	Base
	Open  string
	Close string
}
