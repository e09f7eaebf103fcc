package element

import "basil/internal/source"

// SymbolKind uses the LSP numbering.
type SymbolKind int

const (
	SymbolModule     SymbolKind = 2
	SymbolClass      SymbolKind = 5
	SymbolMethod     SymbolKind = 6
	SymbolProperty   SymbolKind = 7
	SymbolField      SymbolKind = 8
	SymbolEnum       SymbolKind = 10
	SymbolFunction   SymbolKind = 12
	SymbolVariable   SymbolKind = 13
	SymbolConstant   SymbolKind = 14
	SymbolEnumMember SymbolKind = 22
	SymbolStruct     SymbolKind = 23
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolClass:
		return "class"
	case SymbolMethod:
		return "method"
	case SymbolProperty:
		return "property"
	case SymbolField:
		return "field"
	case SymbolEnum:
		return "enum"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolEnumMember:
		return "enum-member"
	case SymbolStruct:
		return "type"
	default:
		return "unknown"
	}
}

// Symbol is one outline entry.
type Symbol struct {
	Name           string       `msgpack:"n"`
	Kind           SymbolKind   `msgpack:"k"`
	Range          source.Range `msgpack:"r"`
	SelectionRange source.Range `msgpack:"s"`
	ContainerName  string       `msgpack:"c,omitempty"`
}

// SymbolInformationCapability produces the outline entry of an element.
type SymbolInformationCapability struct {
	el   Element
	kind SymbolKind
}

func NewSymbolInformationCapability(el Element, kind SymbolKind) *SymbolInformationCapability {
	return &SymbolInformationCapability{el: el, kind: kind}
}

func (c *SymbolInformationCapability) Symbol() Symbol {
	s := Symbol{
		Name:  UnknownElement,
		Kind:  c.kind,
		Range: c.el.Context().Range(),
	}
	s.SelectionRange = s.Range
	if id := c.el.Identifier(); id != nil {
		s.Name = id.Name()
		s.SelectionRange = id.Range()
	}
	for p := c.el.Parent(); p != nil; p = p.Parent() {
		if p.SymbolInformation() != nil && p.Identifier() != nil {
			s.ContainerName = p.Identifier().Name()
			break
		}
	}
	return s
}
