package version

import (
	"strings"
	"testing"
)

func TestDefaultVersionIsSemver(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must have a default")
	}
	core, _, _ := strings.Cut(Version, "-")
	if len(strings.Split(core, ".")) != 3 {
		t.Fatalf("default Version %q is not major.minor.patch", Version)
	}
}

func TestColoredPlain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"nightly", "nightly"},
		{"1.2", "1.2"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, false); got != tt.want {
			t.Errorf("Colored(%q, false) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredPaintsParts(t *testing.T) {
	got := Colored("2.10.4-rc1", true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", got)
	}
	if !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("pre-release suffix must stay plain: %q", got)
	}
	stripped := got
	for strings.Contains(stripped, "\x1b[") {
		i := strings.Index(stripped, "\x1b[")
		j := strings.IndexByte(stripped[i:], 'm')
		stripped = stripped[:i] + stripped[i+j+1:]
	}
	if stripped != "2.10.4-rc1" {
		t.Fatalf("text under colours = %q", stripped)
	}
}

func TestLinkerOverrides(t *testing.T) {
	saved := [...]string{Version, GitCommit, GitMessage, BuildDate}
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = saved[0], saved[1], saved[2], saved[3]
	})

	Version, GitCommit, BuildDate = "1.4.0", "abc123", "2026-03-01T09:00:00Z"
	if Colored(Version, false) != "1.4.0" || GitCommit != "abc123" || BuildDate == "" {
		t.Fatal("overridden build metadata not visible")
	}
}
