package lsp

import (
	"context"
	"errors"
	"sort"
	"time"

	"fortio.org/safecast"

	"basil/internal/diag"
	"basil/internal/trace"
	"basil/internal/workspace"
)

// scheduleUpdate (re)arms the debounce timer of uri. Each document has its
// own timer so editing one file never delays another.
func (s *Server) scheduleUpdate(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked(uri)
	s.seq++
	seq := s.seq
	s.seqs[uri] = seq
	s.timers[uri] = time.AfterFunc(s.debounce, func() {
		s.runUpdate(uri, seq)
	})
}

func (s *Server) cancelTimerLocked(uri string) bool {
	t, ok := s.timers[uri]
	if !ok {
		return false
	}
	delete(s.timers, uri)
	return t.Stop()
}

func (s *Server) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri := range s.timers {
		s.cancelTimerLocked(uri)
	}
}

// flush runs a pending update of uri right away.
func (s *Server) flush(uri string) {
	s.mu.Lock()
	pending := s.cancelTimerLocked(uri)
	seq := s.seqs[uri]
	s.mu.Unlock()
	if pending {
		s.runUpdate(uri, seq)
	}
}

func (s *Server) runUpdate(uri string, seq uint64) {
	s.mu.Lock()
	if s.seqs[uri] != seq {
		s.mu.Unlock()
		return
	}
	doc, ok := s.openDocs[uri]
	if !ok {
		s.mu.Unlock()
		return
	}
	text, rawVersion := doc.text, doc.version
	ws, ctx, verbose := s.ws, s.baseCtx, s.traceLSP
	s.mu.Unlock()

	version, err := safecast.Conv[int32](rawVersion)
	if err != nil {
		s.logf("didChange: uri=%s version %d out of range", uri, rawVersion)
		return
	}
	started := time.Now()
	snap, err := ws.Update(ctx, uri, version, []byte(text))
	if err != nil {
		if !ignorableUpdateError(err) {
			s.logf("update %s: %v", uri, err)
		}
		return
	}
	if verbose {
		s.logf("update: uri=%s version=%d generation=%d took=%s", uri, version, snap.Generation, time.Since(started).Round(time.Microsecond))
	}
	trace.Debugf(s.tracer, trace.ScopeDocument, "lsp.update", "%s v%d gen=%d", uri, version, snap.Generation)
	s.publishAll()
}

// ignorableUpdateError reports errors that only mean a newer request won.
func ignorableUpdateError(err error) bool {
	return errors.Is(err, workspace.ErrStale) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// reanalyzeOpenDocs re-queues every open document, e.g. after a settings change.
func (s *Server) reanalyzeOpenDocs() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.openDocs))
	for uri := range s.openDocs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		s.scheduleUpdate(uri)
	}
}

// publishAll sends diagnostics for every open document whose snapshot is
// newer than the last one published. A rebuild of the graph can change the
// diagnostics of documents that were not edited.
func (s *Server) publishAll() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	uris := make([]string, 0, len(s.openDocs))
	for uri := range s.openDocs {
		uris = append(uris, uri)
	}
	ws := s.ws
	s.mu.Unlock()
	sort.Strings(uris)

	for _, uri := range uris {
		snap := ws.Snapshot(uri)
		if snap == nil {
			continue
		}
		s.mu.Lock()
		_, open := s.openDocs[uri]
		last, seen := s.published[uri]
		if !open || seen && snap.Generation <= last {
			s.mu.Unlock()
			continue
		}
		s.published[uri] = snap.Generation
		s.mu.Unlock()

		list := s.convertDiagnostics(snap)
		version := int(snap.Version)
		if err := s.sendPublish(uri, &version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
}

func (s *Server) convertDiagnostics(snap *workspace.Snapshot) []lspDiagnostic {
	if snap.Skipped {
		return nil
	}
	items := snap.Diagnostics()
	limit := min(len(items), s.maxDiagnostics)
	out := make([]lspDiagnostic, 0, limit)
	for i := range items[:limit] {
		out = append(out, s.toLSPDiagnostic(snap, &items[i]))
	}
	return out
}

// toLSPDiagnostic converts d against the text snap was built from; the
// FileSet slot may already hold a newer version of the document.
func (s *Server) toLSPDiagnostic(snap *workspace.Snapshot, d *diag.Diagnostic) lspDiagnostic {
	fs := s.workspace().FileSet()
	file := snap.File()
	if file == nil || file.ID != d.Primary.File {
		file = fs.Get(d.Primary.File)
	}
	out := lspDiagnostic{
		Severity: d.Severity.LSP(),
		Code:     d.Code.ID(),
		Source:   "basil",
		Message:  d.Message,
	}
	if file != nil {
		out.Range = toLSPRange(file.Range(d.Primary))
	}
	for _, note := range d.Notes {
		nf := fs.Get(note.Span.File)
		if nf == nil {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: documentURI(nf), Range: toLSPRange(nf.Range(note.Span))},
			Message:  note.Msg,
		})
	}
	return out
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]uint64)
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

// snapshotFor returns the snapshot a request on uri should answer from. An
// open document is brought up to its current version first; on timeout the
// last published snapshot is used.
func (s *Server) snapshotFor(rawURI string) *workspace.Snapshot {
	uri := canonicalURI(rawURI)
	if uri == "" {
		return nil
	}
	s.flush(uri)

	s.mu.Lock()
	doc, open := s.openDocs[uri]
	version := 0
	if open {
		version = doc.version
	}
	ws, base, timeout := s.ws, s.baseCtx, s.waitTimeout
	s.mu.Unlock()

	if !open {
		return ws.Snapshot(uri)
	}
	want, err := safecast.Conv[int32](version)
	if err != nil {
		return ws.Snapshot(uri)
	}
	ctx, cancel := context.WithTimeout(base, timeout)
	defer cancel()
	snap, err := ws.Wait(ctx, uri, want)
	if err != nil && s.currentTrace() {
		s.logf("wait %s v%d: %v", uri, want, err)
	}
	return snap
}
