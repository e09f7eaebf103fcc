package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[project]\nname = \"Book\"\n")
	nested := filepath.Join(root, "src", "forms")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("root = %q, want %q", got, want)
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, `[project]
name = "Ledger"

[analysis]
max_lines = 500
extensions = ["BAS", "cls"]
exclude = ["legacy/", "*.frm"]

[application]
name = "Excel"
globals = ["Range", "ActiveSheet"]
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Config.Project.Name != "Ledger" || m.Root != root {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.Config.Analysis.MaxLines != 500 {
		t.Fatalf("max_lines = %d", m.Config.Analysis.MaxLines)
	}
	if want := []string{".bas", ".cls"}; !reflect.DeepEqual(m.Config.Analysis.Extensions, want) {
		t.Fatalf("extensions = %v, want %v", m.Config.Analysis.Extensions, want)
	}
	libs := m.Config.Libraries()
	if len(libs) != 1 || libs[0].Name != "Excel" || len(libs[0].Members) != 2 {
		t.Fatalf("unexpected libraries %+v", libs)
	}
	if m.Digest == (Digest{}) {
		t.Fatal("digest not computed")
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing project", "[analysis]\nmax_lines = 10\n", "missing [project]"},
		{"missing name", "[project]\n", "missing [project].name"},
		{"unknown key", "[project]\nname = \"x\"\ncolour = 1\n", "unknown key"},
		{"negative limit", "[project]\nname = \"x\"\n[analysis]\nmax_lines = -1\n", "must not be negative"},
		{"empty extensions", "[project]\nname = \"x\"\n[analysis]\nextensions = []\n", "extensions is empty"},
		{"bad glob", "[project]\nname = \"x\"\n[analysis]\nexclude = [\"[\"]\n", "bad [analysis].exclude"},
		{"application without name", "[project]\nname = \"x\"\n[application]\nglobals = [\"Range\"]\n", "missing [application].name"},
		{"syntax", "[project\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultConfigHasNoLibraries(t *testing.T) {
	cfg := Default()
	if len(cfg.Libraries()) != 0 {
		t.Fatal("default config must not declare a host library")
	}
	if !reflect.DeepEqual(cfg.Analysis.Extensions, DefaultExtensions) {
		t.Fatalf("extensions = %v", cfg.Analysis.Extensions)
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"Main.bas",
		"src/Account.cls",
		"src/Order.FRM",
		"legacy/Old.bas",
		".git/Hook.bas",
		"notes.txt",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), "Option Explicit\n")
	}

	files, err := CollectFiles(root, AnalysisConfig{
		Extensions: DefaultExtensions,
		Exclude:    []string{"legacy/"},
	})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"Main.bas", "src/Account.cls", "src/Order.FRM"}
	if !reflect.DeepEqual(rel, want) {
		t.Fatalf("files = %v, want %v", rel, want)
	}

	files, err = CollectFiles(root, AnalysisConfig{Extensions: DefaultExtensions, Exclude: []string{"*.frm", "*.FRM"}})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files after excluding forms, got %v", files)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := Sum([]byte("a")), Sum([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine must depend on argument order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("Combine must be deterministic")
	}
}
