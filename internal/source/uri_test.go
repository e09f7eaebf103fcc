package source

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestURIRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}
	path := filepath.Join(t.TempDir(), "My Module.bas")
	uri := PathToURI(path)
	if !strings.HasPrefix(uri, "file:///") || !strings.HasSuffix(uri, "/My%20Module.bas") {
		t.Fatalf("unexpected uri %q", uri)
	}
	if got := URIToPath(uri); got != path {
		t.Fatalf("URIToPath(%q) = %q, want %q", uri, got, path)
	}
}

func TestURIToPathRejectsOtherSchemes(t *testing.T) {
	if got := URIToPath("untitled:Untitled-1"); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
	if got := URIToPath(""); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}
