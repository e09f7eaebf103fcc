package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span identifier; 0 is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the "goroutine N [...]" header of runtime.Stack.
// Only used to tell concurrent document analyses apart in the output.
func goroutineID() uint64 {
	var buf [64]byte
	header := string(buf[:runtime.Stack(buf[:], false)])
	header, ok := strings.CutPrefix(header, "goroutine ")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(header, " ")
	id, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is one timed operation: a workspace load, a document update, a
// graph build. End must be called exactly once.
type Span struct {
	tracer  Tracer
	ev      Event // шаблон для begin/end
	started time.Time
}

// Begin opens a span under parent (0 for a root span). When the tracer
// filters the scope out the span still measures its duration.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{tracer: Nop, started: time.Now()}
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return s
	}
	s.tracer = t
	s.ev = Event{
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
	}
	begin := s.ev
	begin.Kind, begin.Time = KindSpanBegin, s.started
	t.Emit(&begin)
	return s
}

// End closes the span with an optional detail (usually the document URI)
// and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	d := time.Since(s.started)
	if s.ev.SpanID == 0 || !s.tracer.Enabled() {
		return d
	}
	end := s.ev
	end.Kind, end.Time, end.Detail = KindSpanEnd, time.Now(), detail
	s.tracer.Emit(&end)
	return d
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.ev.SpanID == 0 {
		return s
	}
	if s.ev.Extra == nil {
		s.ev.Extra = make(map[string]string, 4)
	}
	s.ev.Extra[key] = value
	return s
}

// WithCount is WithExtra for counters (files, elements, visited items).
func (s *Span) WithCount(key string, n int) *Span {
	if s == nil || s.ev.SpanID == 0 {
		return s
	}
	return s.WithExtra(key, strconv.Itoa(n))
}

// ID returns the span ID, 0 for a filtered span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}
