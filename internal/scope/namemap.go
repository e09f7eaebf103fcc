package scope

import (
	"golang.org/x/text/cases"
)

// nameMap is an insertion-ordered multimap from folded identifier to items.
// Entries are never empty: a key without items is dropped.
type nameMap struct {
	keys    []string
	entries map[string][]ItemID
}

func newNameMap() *nameMap {
	return &nameMap{entries: make(map[string][]ItemID)}
}

func (m *nameMap) add(key string, id ItemID) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = append(m.entries[key], id)
}

func (m *nameMap) get(key string) []ItemID {
	if m == nil {
		return nil
	}
	return m.entries[key]
}

func (m *nameMap) len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// each visits keys in insertion order.
func (m *nameMap) each(fn func(key string, ids []ItemID)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.entries[k])
	}
}

// filter builds a new map with only the items keep accepts; removed items are returned.
func (m *nameMap) filter(keep func(ItemID) bool) (*nameMap, []ItemID) {
	out := newNameMap()
	var dropped []ItemID
	m.each(func(key string, ids []ItemID) {
		for _, id := range ids {
			if keep(id) {
				out.add(key, id)
			} else {
				dropped = append(dropped, id)
			}
		}
	})
	return out, dropped
}

// folder turns identifier text into a case-insensitive key.
// cases.Caser is stateful, so each Graph owns one.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) key(name string) string {
	return f.caser.String(name)
}
