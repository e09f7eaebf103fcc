// Package trace is basil's logging layer: leveled, structured events written
// to stderr, a file or an in-memory ring.
//
// # Usage
//
//	basil diag --trace=- --trace-level=info ./src
//	basil lsp --trace=/tmp/basil.ndjson --trace-level=debug
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write (text or NDJSON)
//   - RingTracer: circular buffer of recent events
//   - MultiTracer: fan-out
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelWarn: Warn point events only
//   - LevelInfo: workspace and document spans, Info points
//   - LevelDetail: graph passes
//   - LevelDebug: everything, including per-item registrations
//
// # Events
//
// Spans (Begin/End) bracket operations and carry their duration in the end
// event; point events (Warn/Info/Debug) are single messages. Tracers travel
// through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.BeginCtx(ctx, trace.ScopeDocument, "analyze")
//	defer span.End("")
package trace
