// Package element wraps parse-tree nodes of one document into syntax
// elements: a node plus its document, with identifier, diagnostic,
// semantic-token, folding and symbol capabilities attached.
//
// Elements are built by a single tree walk (Bind) which also registers
// scope items with the graph. Nothing survives a re-parse: a new walk
// produces a new element tree.
package element
