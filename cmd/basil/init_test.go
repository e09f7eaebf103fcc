package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"basil/internal/project"
)

func TestDefaultManifestParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(buildDefaultManifest("Book", "Excel")), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := project.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Config.Project.Name != "Book" {
		t.Fatalf("name = %q", m.Config.Project.Name)
	}
	if m.Config.Application.Name != "Excel" {
		t.Fatalf("application = %q", m.Config.Application.Name)
	}
	if len(m.Config.Analysis.Extensions) != 3 {
		t.Fatalf("extensions = %v", m.Config.Analysis.Extensions)
	}
}

func TestEnclosingProject(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(buildDefaultManifest("Book", "")), 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "addins", "tools")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := enclosingProject(nested)
	if err != nil || got != root {
		t.Fatalf("enclosingProject(nested) = %q, %v; want %q", got, err, root)
	}
	if _, err := enclosingProject(root); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("expected already-initialized error, got %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if !shouldUseTUI(uiModeOn, true) || shouldUseTUI(uiModeOff, false) {
		t.Fatal("explicit modes must win over terminal detection")
	}
}
