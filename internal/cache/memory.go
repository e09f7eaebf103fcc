package cache

import (
	"sync"

	"basil/internal/project"
)

// minimal per-process cache by path + key
type cached struct {
	key     project.Digest
	outline *Outline
}

// Memory is an in-process outline cache; Layered puts it in front of a DiskCache.
type Memory struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

// NewMemory creates a Memory cache with the given capacity hint.
func NewMemory(capHint int) *Memory {
	return &Memory{byPath: make(map[string]cached, capHint)}
}

// Get returns the outline stored for path when it was stored under key.
func (c *Memory) Get(path string, key project.Digest) (*Outline, bool) {
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.key != key {
		return nil, false
	}
	return rec.outline, true
}

// Put replaces the outline of o.Path.
func (c *Memory) Put(key project.Digest, o *Outline) {
	c.mu.Lock()
	c.byPath[o.Path] = cached{key: key, outline: o}
	c.mu.Unlock()
}

// Layered checks memory first, then disk, promoting disk hits.
type Layered struct {
	Memory *Memory
	Disk   *DiskCache
}

func (l Layered) Get(path string, key project.Digest) (*Outline, bool, error) {
	if l.Memory != nil {
		if o, ok := l.Memory.Get(path, key); ok {
			return o, true, nil
		}
	}
	o, ok, err := l.Disk.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	if l.Memory != nil {
		l.Memory.Put(key, o)
	}
	return o, true, nil
}

func (l Layered) Put(key project.Digest, o *Outline) error {
	if l.Memory != nil {
		l.Memory.Put(key, o)
	}
	return l.Disk.Put(key, o)
}
