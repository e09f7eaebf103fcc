// Package syntax holds the concrete parse tree produced by internal/parser.
//
// Every consumed token is a Terminal leaf, so a node's extent is always the
// token range [Start, Stop] of its leaves. Newline tokens are leaves too:
// statement nodes own the line break that ends them, which lets consumers
// count trailing line endings by looking at the rightmost children.
//
// Parse errors never abort the tree: the parser wraps whatever it could not
// understand in an Error node and records a matching Tree.Errors entry.
package syntax
