package element

import (
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/trace"
)

// UnknownElement is the name of an element whose name could not be resolved.
const UnknownElement = "Unknown Element"

// IdentifierOptions configure how an element finds its name.
type IdentifierOptions struct {
	// NameContext returns the node holding the name; nil result means "no name here".
	NameContext func() *syntax.Node
	// Formatter rewrites the raw name text (qualified names, quotes).
	Formatter func(string) string
	// DefaultName is used when there is no name context.
	DefaultName string
	// DefaultRange supplies the name span when there is no name context.
	DefaultRange func() (source.Span, bool)
}

// IdentifierCapability is the resolved name and name range of an element.
type IdentifierCapability struct {
	name        string
	span        source.Span
	rng         source.Range
	defaultMode bool
}

// NewIdentifierCapability resolves the name eagerly; elements are immutable after construction.
func NewIdentifierCapability(ctx Context, tracer trace.Tracer, opts IdentifierOptions) *IdentifierCapability {
	c := &IdentifierCapability{defaultMode: opts.NameContext == nil}

	var nameNode *syntax.Node
	if opts.NameContext != nil {
		nameNode = opts.NameContext()
	}

	if nameNode != nil {
		text := ctx.Doc.Tree.Text(nameNode)
		if nameNode.IsTerminal() {
			text = nameNode.Tok.Name()
		}
		if opts.Formatter != nil {
			text = opts.Formatter(text)
		}
		c.name = text
		c.span = ctx.Doc.Tree.Span(nameNode)
	} else {
		c.name = opts.DefaultName
		c.span = ctx.Span()
		if opts.DefaultRange != nil {
			if sp, ok := opts.DefaultRange(); ok {
				c.span = sp
			}
		}
		if c.name == "" {
			c.name = UnknownElement
			trace.Warnf(tracer, trace.ScopeNode, "element.identifier",
				"no name for %s in %s at %d", ctx.Node.Kind, ctx.Doc.URI, ctx.Span().Start)
		}
	}
	c.rng = ctx.rangeOf(c.span)
	return c
}

func (c *IdentifierCapability) Name() string        { return c.name }
func (c *IdentifierCapability) Span() source.Span   { return c.span }
func (c *IdentifierCapability) Range() source.Range { return c.rng }

// IsDefaultMode reports that no name-context resolver was supplied.
func (c *IdentifierCapability) IsDefaultMode() bool { return c.defaultMode }
