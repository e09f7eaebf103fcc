package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"basil/internal/diag"
	"basil/internal/element"
	"basil/internal/source"
)

const (
	helperURI = "file:///proj/A.bas"
	callerURI = "file:///proj/B.bas"

	helperSrc = "Attribute VB_Name = \"A\"\nOption Explicit\nPublic Function Helper()\nEnd Function\n"
	callerSrc = "Option Explicit\nSub Main()\n    Helper\nEnd Sub\n"
)

func update(t *testing.T, w *Workspace, uri string, version int32, src string) *Snapshot {
	t.Helper()
	snap, err := w.Update(context.Background(), uri, version, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, snap)
	return snap
}

func withCode(ds []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestUpdatePublishesSnapshot(t *testing.T) {
	w := New(Options{})
	snap := update(t, w, "file:///proj/Loose.bas", 3, "Sub Main()\n    total = 1\nEnd Sub\n")

	require.Equal(t, int32(3), snap.Version)
	require.False(t, snap.Skipped)
	require.Same(t, snap, w.Snapshot("file:///proj/Loose.bas"))

	ds := snap.Diagnostics()
	undeclared := withCode(ds, diag.SemaUndeclaredName)
	require.Len(t, undeclared, 1)
	require.Equal(t, diag.SevWarning, undeclared[0].Severity)
	require.Len(t, withCode(ds, diag.SemaMissingOptionExplicit), 1)

	fix := snap.DiagnosticAction(&undeclared[0])
	require.NotNil(t, fix)
	require.Len(t, fix.Edits, 1)
	require.Equal(t, "    Dim total\n", fix.Edits[0].NewText)

	require.NotEmpty(t, snap.Symbols())
	require.NotEmpty(t, snap.FoldRanges())
}

func TestParseErrorsAreReported(t *testing.T) {
	w := New(Options{})
	snap := update(t, w, "file:///proj/Broken.bas", 1, "Option Explicit\nSub Main(\nEnd Sub\n")
	require.NotEmpty(t, withCode(snap.Diagnostics(), diag.SynParseError))
}

func TestReferencesFollowOtherDocuments(t *testing.T) {
	w := New(Options{})

	before := update(t, w, callerURI, 1, callerSrc)
	require.Len(t, withCode(before.Diagnostics(), diag.SemaUndefinedProcedure), 1)

	update(t, w, helperURI, 1, helperSrc)
	after := w.Snapshot(callerURI)
	require.NotNil(t, after)
	require.Greater(t, after.Generation, before.Generation)
	require.Equal(t, int32(1), after.Version)
	require.Empty(t, withCode(after.Diagnostics(), diag.SemaUndefinedProcedure))

	w.Remove(helperURI)
	require.Nil(t, w.Snapshot(helperURI))
	require.Equal(t, []string{callerURI}, w.Documents())
	require.Len(t, withCode(w.Snapshot(callerURI).Diagnostics(), diag.SemaUndefinedProcedure), 1)
}

func TestMaxLinesSkipsDocument(t *testing.T) {
	w := New(Options{MaxLines: 3})
	src := "Sub Main()\n" + strings.Repeat("    x = 1\n", 10) + "End Sub\n"

	snap := update(t, w, "file:///proj/Big.bas", 1, src)
	require.True(t, snap.Skipped)
	require.Empty(t, snap.Diagnostics())
	require.Empty(t, snap.SemanticTokens(nil))

	w.SetMaxLines(0)
	require.Equal(t, DefaultMaxLines, w.MaxLines())
	snap = update(t, w, "file:///proj/Big.bas", 2, src)
	require.False(t, snap.Skipped)
	require.NotEmpty(t, snap.Diagnostics())
}

func TestSupersededUpdateIsStale(t *testing.T) {
	w := New(Options{Settle: 200 * time.Millisecond})
	uri := "file:///proj/Edit.bas"

	errs := make(chan error, 1)
	go func() {
		_, err := w.Update(context.Background(), uri, 1, []byte("Option Explicit\n"))
		errs <- err
	}()
	require.Eventually(t, func() bool {
		d := w.doc(uri, false)
		return d != nil && d.token.Load() == 1
	}, time.Second, time.Millisecond)

	snap, err := w.Update(context.Background(), uri, 2, []byte("Option Explicit\nDim x\n"))
	require.NoError(t, err)
	require.Equal(t, int32(2), snap.Version)
	require.ErrorIs(t, <-errs, ErrStale)
	require.Equal(t, int32(2), w.Snapshot(uri).Version)
}

func TestUpdateHonoursCancelledContext(t *testing.T) {
	w := New(Options{Settle: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Update(ctx, "file:///proj/Gone.bas", 1, []byte("Option Explicit\n"))
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, w.Snapshot("file:///proj/Gone.bas"))
}

func TestWaitForVersion(t *testing.T) {
	w := New(Options{})
	uri := "file:///proj/Wait.bas"

	got := make(chan *Snapshot, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := w.Wait(ctx, uri, 2)
		if err != nil {
			got <- nil
			return
		}
		got <- snap
	}()

	update(t, w, uri, 1, "Option Explicit\n")
	update(t, w, uri, 2, "Option Explicit\nDim y\n")

	snap := <-got
	require.NotNil(t, snap)
	require.GreaterOrEqual(t, snap.Version, int32(2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	snap, err := w.Wait(ctx, uri, 9)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, int32(2), snap.Version)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.bas")
	b := filepath.Join(dir, "B.bas")
	require.NoError(t, os.WriteFile(a, []byte(strings.ReplaceAll(helperSrc, "\n", "\r\n")), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(callerSrc), 0o600))
	missing := filepath.Join(dir, "Missing.bas")

	w := New(Options{Jobs: 2})
	results, err := w.LoadFiles(context.Background(), []string{a, b, missing})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Error(t, results[2].Err)
	require.Equal(t, source.PathToURI(b), results[1].URI)

	require.Len(t, w.Documents(), 2)
	snap := w.Snapshot(results[1].URI)
	require.NotNil(t, snap)
	require.Empty(t, withCode(snap.Diagnostics(), diag.SemaUndefinedProcedure))
	require.Equal(t, 2, w.Stats().Documents)
}

func TestRepeatedUpdatesReuseFileSlot(t *testing.T) {
	w := New(Options{})
	first := update(t, w, helperURI, 1, helperSrc)
	for v := int32(2); v <= 50; v++ {
		update(t, w, helperURI, v, helperSrc+strings.Repeat("'\n", int(v)))
	}
	update(t, w, callerURI, 1, callerSrc)

	require.Equal(t, 2, w.FileSet().Len())
	require.Equal(t, first.File().ID, w.Snapshot(helperURI).File().ID)
	require.Equal(t, helperSrc, string(first.File().Content), "old snapshot keeps its text")
}

func TestReloadingFilesReusesFileSlot(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.bas")
	require.NoError(t, os.WriteFile(a, []byte(helperSrc), 0o600))

	w := New(Options{})
	for range 3 {
		_, err := w.LoadFiles(context.Background(), []string{a})
		require.NoError(t, err)
	}
	require.Equal(t, 1, w.FileSet().Len())
}

func TestSemanticTokensDeltaEncoding(t *testing.T) {
	s := &Snapshot{tokens: sortTokens([]element.SemanticToken{
		{Line: 2, Char: 4, Length: 3, Type: element.TokenVariable},
		{Line: 0, Char: 4, Length: 4, Type: element.TokenFunction, Modifiers: element.ModDeclaration},
		{Line: 0, Char: 10, Length: 1, Type: element.TokenParameter},
		{Line: 0, Char: 10, Length: 1, Type: element.TokenVariable},
	})}

	require.Equal(t, []uint32{
		0, 4, 4, uint32(element.TokenFunction), uint32(element.ModDeclaration),
		0, 6, 1, uint32(element.TokenParameter), 0,
		2, 4, 3, uint32(element.TokenVariable), 0,
	}, s.SemanticTokens(nil))

	rng := source.Range{
		Start: source.Position{Line: 0, Character: 9},
		End:   source.Position{Line: 3, Character: 0},
	}
	require.Equal(t, []uint32{
		0, 10, 1, uint32(element.TokenParameter), 0,
		2, 4, 3, uint32(element.TokenVariable), 0,
	}, s.SemanticTokens(&rng))

	// токен, заканчивающийся ровно на начале диапазона, не попадает
	rng.Start = source.Position{Line: 0, Character: 8}
	require.Len(t, s.SemanticTokens(&rng), 10)
}
