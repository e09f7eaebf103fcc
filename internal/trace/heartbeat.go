package trace

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Heartbeat emits a periodic event with process vitals. In `basil lsp` a
// heartbeat with a growing heap and no document spans points at a stuck
// analysis rather than an idle server.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the ticker goroutine; it returns nil when tracing
// is off or interval is not positive. Stop is safe on a nil Heartbeat.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(tracer, interval)
	return h
}

func (h *Heartbeat) loop(tracer Tracer, interval time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(interval)
	defer tick.Stop()

	started := time.Now()
	gid := goroutineID()
	var n uint64
	for {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			n++
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeWorkspace,
				GID:    gid,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d", n),
				Extra: map[string]string{
					"uptime":     now.Sub(started).Round(time.Millisecond).String(),
					"goroutines": fmt.Sprint(runtime.NumGoroutine()),
					"heap_mb":    fmt.Sprintf("%.1f", float64(ms.HeapAlloc)/(1<<20)),
				},
			})
		}
	}
}

// Stop ends the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
