package trace

import (
	"io"
	"slices"
	"sync"
	"time"
)

// RingTracer keeps the most recent events in memory. `basil lsp` runs with
// it by default so a panic can print what led up to it.
type RingTracer struct {
	mu    sync.RWMutex
	buf   []Event
	next  int // позиция следующей записи
	count int // заполнено слотов, не больше len(buf)
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.accepts(ev) {
		return
	}
	stored := *ev
	if stored.Time.IsZero() {
		stored.Time = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	stored.Seq = NextSeq()
	t.buf[t.next] = stored
	t.next = (t.next + 1) % len(t.buf)
	t.count = min(t.count+1, len(t.buf))
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.count < len(t.buf) {
		return slices.Clone(t.buf[:t.count])
	}
	return slices.Concat(t.buf[t.next:], t.buf[:t.next])
}

// Dump writes Snapshot in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
