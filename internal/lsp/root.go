package lsp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"basil/internal/project"
)

// projectScope describes what initialize found at the workspace root.
type projectScope struct {
	root     string
	manifest *project.Manifest
	config   project.Config
	// err is set when a basil.toml exists but cannot be used.
	err error
}

func detectProject(workspaceRoot string) projectScope {
	scope := projectScope{root: workspaceRoot, config: project.Default()}
	start := resolveStartDir(workspaceRoot)
	if start == "" {
		return scope
	}
	manifest, err := project.Load(start)
	switch {
	case err == nil:
		scope.root = manifest.Root
		scope.manifest = manifest
		scope.config = manifest.Config
	case errors.Is(err, project.ErrNoManifest):
	default:
		scope.err = err
	}
	return scope
}

// owns reports whether path is a project source file that should stay in the
// graph after its editor buffer closes.
func (p projectScope) owns(path string) bool {
	if p.manifest == nil || path == "" {
		return false
	}
	rel, err := filepath.Rel(p.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return project.HasExtension(path, p.config.Analysis.Extensions)
}

func resolveStartDir(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
