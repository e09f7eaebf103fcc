package element

import "basil/internal/source"

// TokenType indexes TokenTypes.
type TokenType uint32

const (
	TokenNamespace TokenType = iota
	TokenTypeName
	TokenClass
	TokenEnum
	TokenStruct
	TokenEnumMember
	TokenFunction
	TokenMethod
	TokenProperty
	TokenVariable
	TokenParameter
)

// TokenTypes is the semantic-token legend, in TokenType order.
var TokenTypes = []string{
	"namespace", "type", "class", "enum", "struct", "enumMember",
	"function", "method", "property", "variable", "parameter",
}

// TokenModifier is a bit of TokenModifiers.
type TokenModifier uint32

const (
	ModDeclaration TokenModifier = 1 << iota
	ModReadonly
	ModStatic
	ModDefaultLibrary
	ModModification
)

// TokenModifiers is the modifier legend, in bit order.
var TokenModifiers = []string{"declaration", "readonly", "static", "defaultLibrary", "modification"}

// SemanticToken is one absolute token; the workspace sorts and delta-encodes them.
type SemanticToken struct {
	Line      int
	Char      int
	Length    int
	Type      TokenType
	Modifiers TokenModifier
}

// SemanticTokenCapability maps an element to one editor token.
type SemanticTokenCapability struct {
	el             Element
	typ            TokenType
	mods           TokenModifier
	overrideRange  *source.Range
	overrideLength int

	// classify, если задан, вычисляет тип по состоянию графа после Build.
	classify func() (TokenType, TokenModifier)
}

// NewSemanticTokenCapability creates a token at the element's name range, or at
// overrideRange when the element has no identifier.
func NewSemanticTokenCapability(el Element, typ TokenType, mods TokenModifier, overrideRange *source.Range, overrideLength int) *SemanticTokenCapability {
	return &SemanticTokenCapability{
		el:             el,
		typ:            typ,
		mods:           mods,
		overrideRange:  overrideRange,
		overrideLength: overrideLength,
	}
}

// Token returns the token; false when it would span lines or be empty.
func (c *SemanticTokenCapability) Token() (SemanticToken, bool) {
	if c == nil {
		return SemanticToken{}, false
	}
	var rng source.Range
	switch {
	case c.el.Identifier() != nil:
		rng = c.el.Identifier().Range()
	case c.overrideRange != nil:
		rng = *c.overrideRange
	default:
		rng = c.el.Context().Range()
	}
	length := c.overrideLength
	if length <= 0 {
		if rng.End.Line != rng.Start.Line {
			return SemanticToken{}, false
		}
		length = rng.End.Character - rng.Start.Character
	}
	if length <= 0 {
		return SemanticToken{}, false
	}
	typ, mods := c.typ, c.mods
	if c.classify != nil {
		typ, mods = c.classify()
	}
	return SemanticToken{
		Line:      rng.Start.Line,
		Char:      rng.Start.Character,
		Length:    length,
		Type:      typ,
		Modifiers: mods,
	}, true
}
