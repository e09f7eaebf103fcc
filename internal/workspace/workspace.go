package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"basil/internal/diag"
	"basil/internal/element"
	"basil/internal/fix"
	"basil/internal/parser"
	"basil/internal/scope"
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/trace"
)

// DefaultMaxLines is the line ceiling above which a document is not analysed.
const DefaultMaxLines = 20000

// ErrStale is returned by Update when a newer request for the same document
// arrived before this one took the writer lock.
var ErrStale = errors.New("workspace: update superseded by a newer request")

// Options configure a Workspace.
type Options struct {
	Tracer trace.Tracer
	// MaxLines is the per-document line ceiling; 0 selects DefaultMaxLines.
	MaxLines int
	// Settle delays an update before it competes for the writer lock, so a
	// burst of edits collapses into the last one.
	Settle time.Duration
	// Libraries are registered in addition to the built-in VBA library.
	Libraries []scope.Library
	// Jobs bounds parallel parsing in LoadFiles; 0 means GOMAXPROCS.
	Jobs int
	// OnParsed, if set, is called from LoadFiles workers after each file is
	// read and parsed (err is the read error).
	OnParsed func(path string, err error)
}

// Workspace owns the Project graph and every document bound into it.
// All mutation happens under mu; snapshots are published atomically.
type Workspace struct {
	mu      sync.Mutex
	fs      *source.FileSet
	graph   *scope.Graph
	actions *fix.Registry
	tracer  trace.Tracer
	settle  time.Duration
	jobs    int
	parsed  func(string, error)

	maxLines   atomic.Int64
	generation atomic.Uint64

	docsMu sync.RWMutex
	docs   map[string]*document
}

// document is the per-URI state. Fields below the marker are guarded by Workspace.mu.
type document struct {
	uri     string
	token   atomic.Uint64
	snap    atomic.Pointer[Snapshot]
	readyMu sync.Mutex
	ready   chan struct{} // закрывается при каждой публикации

	// под Workspace.mu
	version int32
	file    *source.File
	tree    *syntax.Tree
	module  *element.ModuleElement
	skipped bool
}

// New creates a workspace with the VBA library and opts.Libraries registered.
func New(opts Options) *Workspace {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	fs := source.NewFileSet()
	actions := fix.NewRegistry(fs)
	w := &Workspace{
		fs:      fs,
		actions: actions,
		tracer:  tracer,
		settle:  opts.Settle,
		jobs:    opts.Jobs,
		parsed:  opts.OnParsed,
		docs:    make(map[string]*document),
	}
	w.graph = scope.New(w.buildContext())
	w.graph.AddLibrary(scope.VBALibrary())
	for _, lib := range opts.Libraries {
		w.graph.AddLibrary(lib)
	}
	w.SetMaxLines(opts.MaxLines)
	return w
}

func (w *Workspace) buildContext() scope.BuildContext {
	return scope.BuildContext{Tracer: w.tracer, Actions: w.actions}
}

// FileSet returns the file set every document is loaded into.
func (w *Workspace) FileSet() *source.FileSet { return w.fs }

// Actions returns the code-action registry.
func (w *Workspace) Actions() *fix.Registry { return w.actions }

// SetMaxLines changes the line ceiling for later updates; n <= 0 restores the default.
func (w *Workspace) SetMaxLines(n int) {
	if n <= 0 {
		n = DefaultMaxLines
	}
	w.maxLines.Store(int64(n))
}

// MaxLines returns the current line ceiling.
func (w *Workspace) MaxLines() int { return int(w.maxLines.Load()) }

func (w *Workspace) doc(uri string, create bool) *document {
	w.docsMu.RLock()
	d := w.docs[uri]
	w.docsMu.RUnlock()
	if d != nil || !create {
		return d
	}
	w.docsMu.Lock()
	defer w.docsMu.Unlock()
	if d = w.docs[uri]; d == nil {
		d = &document{uri: uri, ready: make(chan struct{})}
		w.docs[uri] = d
	}
	return d
}

// Documents returns the URIs of every known document, sorted.
func (w *Workspace) Documents() []string {
	w.docsMu.RLock()
	out := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		out = append(out, uri)
	}
	w.docsMu.RUnlock()
	sort.Strings(out)
	return out
}

// Snapshot returns the latest published snapshot of uri, or nil.
func (w *Workspace) Snapshot(uri string) *Snapshot {
	if d := w.doc(uri, false); d != nil {
		return d.snap.Load()
	}
	return nil
}

// Wait blocks until uri has a snapshot of at least version, or ctx is done.
// On timeout it returns the last snapshot (possibly nil) with ctx.Err().
func (w *Workspace) Wait(ctx context.Context, uri string, version int32) (*Snapshot, error) {
	d := w.doc(uri, true)
	for {
		d.readyMu.Lock()
		snap, ready := d.snap.Load(), d.ready
		d.readyMu.Unlock()
		if snap != nil && snap.Version >= version {
			return snap, nil
		}
		select {
		case <-ready:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

func (d *document) publish(s *Snapshot) {
	d.readyMu.Lock()
	d.snap.Store(s)
	close(d.ready)
	d.ready = make(chan struct{})
	d.readyMu.Unlock()
}

// Update re-analyses uri with new text. Every call takes a request token;
// a call overtaken by a newer one for the same document returns ErrStale
// without touching the graph.
func (w *Workspace) Update(ctx context.Context, uri string, version int32, text []byte) (*Snapshot, error) {
	d := w.doc(uri, true)
	tok := d.token.Add(1)

	if w.settle > 0 {
		timer := time.NewTimer(w.settle)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
	if d.token.Load() != tok {
		return nil, ErrStale
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if d.token.Load() != tok {
		return nil, ErrStale
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span := trace.Begin(w.tracer, trace.ScopeWorkspace, "workspace.update", trace.ParentID(ctx))
	defer span.End(uri)

	// одна версия на документ: старые снапшоты держат свой *File
	fileID := w.fs.Replace(uri, text, source.FileVirtual)
	d.version = version
	w.bindLocked(d, w.fs.Get(fileID), nil)
	w.buildAndPublishLocked()
	return d.snap.Load(), nil
}

// Remove drops uri from the graph eagerly and republishes the other documents.
func (w *Workspace) Remove(uri string) {
	d := w.doc(uri, false)
	if d == nil {
		return
	}
	d.token.Add(1)
	w.mu.Lock()
	defer w.mu.Unlock()
	freed := w.graph.Unlink(uri)
	trace.Debugf(w.tracer, trace.ScopeWorkspace, "workspace.remove", "%s items=%d", uri, freed)
	w.docsMu.Lock()
	delete(w.docs, uri)
	w.docsMu.Unlock()
	d.publish(&Snapshot{URI: uri, Version: d.version, Skipped: true, actions: w.actions})
	w.buildAndPublishLocked()
}

// bindLocked replaces the document's contribution to the graph. tree may be
// pre-parsed by LoadFiles; nil parses here.
func (w *Workspace) bindLocked(d *document, file *source.File, tree *syntax.Tree) {
	w.graph.InvalidateDocument(d.uri)
	d.file = file
	d.module = nil
	d.tree = nil
	d.skipped = false

	limit := w.MaxLines()
	if lines := file.LineCount(); lines > limit {
		d.skipped = true
		trace.Warnf(w.tracer, trace.ScopeDocument, "workspace.skip",
			"%s: %s (%d lines, limit %d)", diag.ResDocumentTooLarge.ID(), d.uri, lines, limit)
		return
	}
	if tree == nil {
		tree = parser.Parse(file, parser.Options{})
	}
	d.tree = tree
	d.module = element.Bind(&element.Document{URI: d.uri, Tree: tree}, w.graph, w.buildContext())
}

// buildAndPublishLocked builds the graph and republishes every document:
// a change in one module can resolve or break references in all others.
func (w *Workspace) buildAndPublishLocked() {
	stats := w.graph.Build()
	gen := w.generation.Add(1)
	trace.Debugf(w.tracer, trace.ScopeGraph, "workspace.build",
		"gen=%d visited=%d resolved=%d unresolved=%d compacted=%d items=%d",
		gen, stats.Visited, stats.Resolved, stats.Unresolved, stats.Compacted, w.graph.Len())

	w.docsMu.RLock()
	docs := make([]*document, 0, len(w.docs))
	for _, d := range w.docs {
		docs = append(docs, d)
	}
	w.docsMu.RUnlock()
	for _, d := range docs {
		if d.file == nil {
			continue
		}
		d.publish(buildSnapshot(d, gen, w.actions))
	}
}

// DiagnosticAction returns the fix-it for a diagnostic published for uri.
func (w *Workspace) DiagnosticAction(uri string, d *diag.Diagnostic) *diag.Fix {
	return w.actions.GetDiagnosticAction(d, uri)
}

// Stats describes the graph for status output.
type Stats struct {
	Documents  int
	Items      int
	Generation uint64
}

func (w *Workspace) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Documents:  len(w.Documents()),
		Items:      w.graph.Len(),
		Generation: w.generation.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("documents=%d items=%d generation=%s", s.Documents, s.Items, strconv.FormatUint(s.Generation, 10))
}
