package lsp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectProjectWithManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "basil.toml"), []byte("[project]\nname = \"demo\"\n"), 0o644); err != nil {
		t.Fatalf("write basil.toml: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scope := detectProject(nested)
	if scope.err != nil {
		t.Fatalf("unexpected error: %v", scope.err)
	}
	if scope.manifest == nil || scope.root != root {
		t.Fatalf("expected root %q, got %q (manifest %v)", root, scope.root, scope.manifest)
	}
	if !scope.owns(filepath.Join(nested, "Module1.bas")) {
		t.Fatalf("project source should be owned")
	}
	if scope.owns(filepath.Join(nested, "notes.txt")) {
		t.Fatalf("foreign extension must not be owned")
	}
	if scope.owns(filepath.Join(filepath.Dir(root), "Other.bas")) {
		t.Fatalf("file outside the root must not be owned")
	}
}

func TestDetectProjectWithoutManifest(t *testing.T) {
	root := t.TempDir()
	scope := detectProject(root)
	if scope.err != nil || scope.manifest != nil {
		t.Fatalf("expected defaults, got manifest=%v err=%v", scope.manifest, scope.err)
	}
	if scope.root != root {
		t.Fatalf("expected root %q, got %q", root, scope.root)
	}
	if scope.owns(filepath.Join(root, "Module1.bas")) {
		t.Fatalf("nothing is owned without a manifest")
	}
	if len(scope.config.Analysis.Extensions) == 0 {
		t.Fatalf("default config must list extensions")
	}
}

func TestDetectProjectEmptyRoot(t *testing.T) {
	scope := detectProject("")
	if scope.manifest != nil || scope.err != nil || scope.root != "" {
		t.Fatalf("unexpected scope: %+v", scope)
	}
}
