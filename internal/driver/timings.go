package driver

import (
	"time"

	"basil/internal/observ"
)

// phases feeds both the optional timer and the optional observer.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
	started  map[int]time.Time
	names    map[int]string
	next     int
}

func newPhases(timer *observ.Timer, observer PhaseObserver) *phases {
	return &phases{
		timer:    timer,
		observer: observer,
		started:  make(map[int]time.Time),
		names:    make(map[int]string),
	}
}

func (p *phases) begin(name string) int {
	idx := p.next
	p.next++
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	p.started[idx] = time.Now()
	p.names[idx] = name
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return idx
}

func (p *phases) end(idx int, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{
			Name:    p.names[idx],
			Status:  PhaseEnd,
			Elapsed: time.Since(p.started[idx]),
			Note:    note,
		})
	}
	delete(p.started, idx)
	delete(p.names, idx)
}
