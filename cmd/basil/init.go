package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"basil/internal/project"
	"basil/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new basil project",
	Long: `Initialize a new basil project by creating a project manifest (basil.toml)
and a starter module (Module1.bas). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("application", "", "host application whose globals are predeclared (e.g. Excel)")
}

// runInit writes basil.toml and Module1.bas into the target directory and
// refuses to overwrite an existing manifest.
func runInit(cmd *cobra.Command, args []string) error {
	application, err := cmd.Flags().GetString("application")
	if err != nil {
		return fmt.Errorf("failed to get application flag: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) > 0 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "basil-project"
	}

	enclosing, err := enclosingProject(target)
	if err != nil {
		return err
	}
	if enclosing != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: nested inside the basil project at %s\n", enclosing)
	}
	manifestPath := filepath.Join(target, project.ManifestName)
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name, application)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	modulePath := filepath.Join(target, "Module1.bas")
	createdModule := false
	if _, err := os.Stat(modulePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(modulePath, []byte(defaultModule), 0o600); err != nil {
			return fmt.Errorf("failed to write Module1.bas: %w", err)
		}
		createdModule = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized basil project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdModule {
		fmt.Fprintln(out, "  - Module1.bas")
	} else {
		fmt.Fprintln(out, "  - Module1.bas (existing)")
	}
	return nil
}

// enclosingProject returns the root of a project above target. A manifest in
// target itself means the project is already initialized.
func enclosingProject(target string) (string, error) {
	root, ok, err := project.FindProjectRoot(target)
	if err != nil || !ok {
		return "", err
	}
	if filepath.Clean(root) == filepath.Clean(target) {
		return "", fmt.Errorf("project already initialized: %s exists", filepath.Join(root, project.ManifestName))
	}
	return root, nil
}

// buildDefaultManifest returns a minimal basil.toml. The [application]
// table is written only when a host application is given.
func buildDefaultManifest(name, application string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# basil project manifest\n[project]\nname = %q\n\n", name)
	b.WriteString("[analysis]\n")
	fmt.Fprintf(&b, "max_lines = %d\n", workspace.DefaultMaxLines)
	b.WriteString("extensions = [\".bas\", \".cls\", \".frm\"]\n")
	b.WriteString("exclude = []\n")
	if application = strings.TrimSpace(application); application != "" {
		fmt.Fprintf(&b, "\n[application]\nname = %q\nglobals = []\n", application)
	}
	return b.String()
}

const defaultModule = `Attribute VB_Name = "Module1"
Option Explicit

Public Sub Main()
    Dim greeting As String
    greeting = "Hello, basil!"
    Debug.Print greeting
End Sub
`
