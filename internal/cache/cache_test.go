package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"basil/internal/cache"
	"basil/internal/element"
	"basil/internal/project"
	"basil/internal/source"
)

func outline(path string) *cache.Outline {
	return &cache.Outline{
		Path:   path,
		Module: "Ledger",
		Symbols: []element.Symbol{{
			Name:  "Post",
			Kind:  element.SymbolFunction,
			Range: source.Range{Start: source.Position{Line: 2}, End: source.Position{Line: 5}},
		}},
		ParseErrors: 1,
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := cache.Key(project.Sum([]byte("Sub Post()\nEnd Sub\n")), project.Digest{})

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, outline("Ledger.bas")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Module != "Ledger" || len(got.Symbols) != 1 || got.Symbols[0].Name != "Post" {
		t.Fatalf("unexpected outline %+v", got)
	}
	if got.Symbols[0].Range.End.Line != 5 || got.ParseErrors != 1 {
		t.Fatalf("fields lost in round trip: %+v", got)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "basil")
	c, err := cache.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := project.Sum([]byte("x"))
	if err := c.Put(key, outline("X.bas")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not recreated: %v", err)
	}
}

func TestManifestChangesKey(t *testing.T) {
	content := project.Sum([]byte("Option Explicit\n"))
	if cache.Key(content, project.Sum([]byte("a"))) == cache.Key(content, project.Sum([]byte("b"))) {
		t.Fatal("manifest digest must be part of the key")
	}
}

func TestLayeredPromotesDiskHits(t *testing.T) {
	disk, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := project.Sum([]byte("y"))
	if err := disk.Put(key, outline("Y.bas")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mem := cache.NewMemory(4)
	l := cache.Layered{Memory: mem, Disk: disk}
	if _, ok, err := l.Get("Y.bas", key); !ok || err != nil {
		t.Fatalf("expected disk hit, got ok=%v err=%v", ok, err)
	}
	if _, ok := mem.Get("Y.bas", key); !ok {
		t.Fatal("disk hit was not promoted to memory")
	}
	if _, ok := mem.Get("Y.bas", project.Sum([]byte("other"))); ok {
		t.Fatal("expected miss on different key")
	}
}
