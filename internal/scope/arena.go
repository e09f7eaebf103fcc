package scope

import (
	"fmt"

	"fortio.org/safecast"
)

type slot struct {
	item *Item
	gen  uint32
}

// arena stores items by index; index 0 is reserved as the sentinel.
// Freed slots are reused with a bumped generation.
type arena struct {
	slots []slot
	free  []uint32
	live  int
}

func newArena(capacity uint32) *arena {
	return &arena{slots: make([]slot, 1, capacity+1)}
}

func (a *arena) alloc(it *Item) ItemID {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.item = it
		a.live++
		it.id = ItemID{index: index, gen: s.gen}
		return it.id
	}
	value, err := safecast.Conv[uint32](len(a.slots))
	if err != nil {
		panic(fmt.Errorf("scope items arena overflow: %w", err))
	}
	a.slots = append(a.slots, slot{item: it, gen: 1})
	a.live++
	it.id = ItemID{index: value, gen: 1}
	return it.id
}

// get returns the live item for id or nil for freed, stale or unknown handles.
func (a *arena) get(id ItemID) *Item {
	if !id.IsValid() || int(id.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[id.index]
	if s.item == nil || s.gen != id.gen {
		return nil
	}
	return s.item
}

func (a *arena) release(id ItemID) bool {
	if a.get(id) == nil {
		return false
	}
	s := &a.slots[id.index]
	s.item = nil
	s.gen++
	a.free = append(a.free, id.index)
	a.live--
	return true
}

// Len returns the number of live items.
func (a *arena) Len() int { return a.live }
