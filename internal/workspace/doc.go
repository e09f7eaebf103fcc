// Package workspace serialises analysis of a set of documents and publishes
// immutable per-document snapshots.
//
// A single writer lock covers parse, bind and Build; readers only load the
// current Snapshot pointer. Each Update takes a request token for its
// document: a request overtaken by a newer one for the same URI returns
// ErrStale instead of doing work whose result would be discarded. Wait blocks
// until a given version is published, so request handlers can answer against
// the text the editor sent.
//
// Every Build republishes all documents, because resolution in one module
// depends on declarations in the others.
package workspace
