package scope

import "fmt"

// ItemID is a generation-checked handle into the item arena.
// A handle whose slot was freed and reused no longer resolves.
type ItemID struct {
	index uint32
	gen   uint32
}

// NoItem marks the absence of an item reference.
var NoItem = ItemID{}

// IsValid reports whether the handle was ever allocated.
// It does not check liveness; use Graph.Item for that.
func (id ItemID) IsValid() bool { return id.index != 0 }

func (id ItemID) String() string {
	if !id.IsValid() {
		return "item(none)"
	}
	return fmt.Sprintf("item(%d#%d)", id.index, id.gen)
}
