// Package scope maintains the project-wide scope graph.
//
// Items live in a generation-checked arena and refer to each other by
// ItemID: a reference's link and a declaration's back-links are handles, so
// removing an item is unlink-then-free. Every item has one parent; the
// Project is the persistent root, modules and classes are its direct members.
//
// Registration only files items into their parent's categories. Resolution
// and diagnostics are deferred to Build, which walks the tree top-down:
// compaction, link hygiene, reference resolution, duplicate and shadow
// checks, recursion. A document's items are retracted either lazily
// (InvalidateDocument, compacted by the next Build) or eagerly (Unlink).
package scope
