package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"basil/internal/cache"
	"basil/internal/diag"
	"basil/internal/driver"
	"basil/internal/fix"
	"basil/internal/token"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestDiagnoseResolvesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Util.bas"), "Option Explicit\nPublic Function Twice(x)\n    Twice = x * 2\nEnd Function\n")
	writeFile(t, filepath.Join(dir, "Main.bas"), "Option Explicit\nSub Main()\n    Dim y\n    y = Twice(2)\n    Missing\nEnd Sub\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not code")

	res, err := driver.Diagnose(context.Background(), []string{dir}, driver.DiagnoseOptions{EnableTimings: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	require.Nil(t, res.Manifest)
	require.NotNil(t, res.Timing)
	require.NotEmpty(t, res.Timing.Phases)

	main := res.Files[0]
	require.True(t, strings.HasSuffix(main.Path, "Main.bas"))
	require.Equal(t, []diag.Code{diag.SemaUndefinedProcedure}, codes(main.Bag))
	require.True(t, res.HasErrors())
	require.Equal(t, 1, res.Bag().Len())
}

func TestDiagnoseUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "basil.toml"), `[project]
name = "Book"

[analysis]
max_lines = 6
exclude = ["legacy/"]

[application]
name = "Excel"
globals = ["ActiveSheet"]
`)
	writeFile(t, filepath.Join(dir, "Sheet.bas"), "Option Explicit\nSub Run()\n    ActiveSheet\nEnd Sub\n")
	writeFile(t, filepath.Join(dir, "Big.bas"), "Option Explicit\nSub Big()\n    a = 1\n    b = 2\n    c = 3\nEnd Sub\n")
	writeFile(t, filepath.Join(dir, "legacy", "Old.bas"), "Sub Old()\nEnd Sub\n")

	res, err := driver.Diagnose(context.Background(), []string{dir}, driver.DiagnoseOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Manifest)
	require.Equal(t, "Book", res.Manifest.Config.Project.Name)
	require.Len(t, res.Files, 2)

	for _, f := range res.Files {
		require.Zero(t, f.Bag.Len(), "unexpected diagnostics in %s: %v", f.Path, codes(f.Bag))
		if strings.HasSuffix(f.Path, "Big.bas") {
			require.True(t, f.Snapshot.Skipped)
		}
	}
}

func TestSeverityPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "Loose.bas"), "Sub Main()\n    total = 1\nEnd Sub\n")

	res, err := driver.Diagnose(context.Background(), []string{path}, driver.DiagnoseOptions{})
	require.NoError(t, err)
	require.False(t, res.HasErrors())
	require.ElementsMatch(t, []diag.Code{diag.SemaUndeclaredName, diag.SemaMissingOptionExplicit}, codes(res.Files[0].Bag))

	res, err = driver.Diagnose(context.Background(), []string{path}, driver.DiagnoseOptions{WarningsAsErrors: true})
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	res, err = driver.Diagnose(context.Background(), []string{path}, driver.DiagnoseOptions{IgnoreWarnings: true})
	require.NoError(t, err)
	require.Zero(t, res.Files[0].Bag.Len())
}

func TestMissingFileIsReported(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "Gone.bas")
	res, err := driver.Diagnose(context.Background(), []string{missing}, driver.DiagnoseOptions{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Nil(t, res.Files[0].Snapshot)
	require.Equal(t, []diag.Code{diag.IOLoadFileError}, codes(res.Files[0].Bag))
}

type recordingSink struct {
	mu     sync.Mutex
	events []driver.Event
}

func (s *recordingSink) OnEvent(ev driver.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "A.bas"), "Option Explicit\n")
	sink := &recordingSink{}
	var phases []string

	_, err := driver.Diagnose(context.Background(), []string{path}, driver.DiagnoseOptions{
		Progress: sink,
		Observer: func(ev driver.PhaseEvent) {
			if ev.Status == driver.PhaseEnd {
				phases = append(phases, ev.Name)
			}
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"manifest", "collect", "analyse", "collect_diagnostics"}, phases)

	var stages []driver.Stage
	for _, ev := range sink.events {
		if ev.File != "" {
			stages = append(stages, ev.Stage)
		}
	}
	require.Equal(t, []driver.Stage{driver.StageParse, driver.StageBind, driver.StageReport}, stages)
	last := sink.events[len(sink.events)-1]
	require.Equal(t, driver.StatusDone, last.Status)
}

func TestFixAppliesDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "Loose.bas"), "Sub Main()\n    total = 1\n    total = total + 1\nEnd Sub\n")

	_, applied, err := driver.Fix(context.Background(), []string{path}, driver.DiagnoseOptions{}, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	require.Len(t, applied.Applied, 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Option Explicit\nSub Main()\n    Dim total\n    total = 1\n    total = total + 1\nEnd Sub\n", string(data))

	res, err := driver.Diagnose(context.Background(), []string{path}, driver.DiagnoseOptions{})
	require.NoError(t, err)
	require.Zero(t, res.Files[0].Bag.Len())

	_, _, err = driver.Fix(context.Background(), []string{path}, driver.DiagnoseOptions{}, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.ErrorIs(t, err, fix.ErrNoFixes)
}

func TestOutlinesUseCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "Ledger.cls"), "Option Explicit\nPublic Sub Post()\nEnd Sub\nPublic Property Get Total()\nEnd Property\n")
	disk, err := cache.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := driver.OutlineOptions{Cache: cache.Layered{Memory: cache.NewMemory(4), Disk: disk}}

	first, err := driver.Outlines(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	require.Len(t, first.Outlines, 1)
	require.NoError(t, first.Errs[0])
	o := first.Outlines[0]
	require.Equal(t, "Ledger", o.Module)
	require.Zero(t, o.ParseErrors)
	var names []string
	for _, s := range o.Symbols {
		names = append(names, s.Name)
	}
	require.Contains(t, names, "Post")
	require.Contains(t, names, "Total")
	require.Contains(t, first.Summary(), "cache: 0/1")

	second, err := driver.Outlines(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	require.Contains(t, second.Summary(), "cache: 1/1")
	require.Equal(t, o.Symbols, second.Outlines[0].Symbols)
}

func TestTokenizeAndParse(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "A.bas"), "Sub Main(\nEnd Sub\n")

	toks, err := driver.Tokenize(path, 0)
	require.NoError(t, err)
	require.NotEmpty(t, toks.Tokens)
	require.Equal(t, token.EOF, toks.Tokens[len(toks.Tokens)-1].Kind)
	require.Zero(t, toks.Bag.Len())

	parsed, err := driver.Parse(path, 0)
	require.NoError(t, err)
	require.NotNil(t, parsed.Tree.Root)
	require.NotZero(t, parsed.Bag.Len())
}

func TestWatchReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.bas"), "Option Explicit\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- driver.Watch(ctx, []string{dir}, driver.WatchOptions{Debounce: 20 * time.Millisecond}, func(changed []string) {
			changes <- changed
		})
	}()

	// наблюдатель мог ещё не подписаться; пишем, пока не придёт событие
	var got []string
	require.Eventually(t, func() bool {
		writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
		writeFile(t, filepath.Join(dir, "A.bas"), "Option Explicit\nDim x\n")
		select {
		case got = <-changes:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.Len(t, got, 1)
	require.Equal(t, "A.bas", filepath.Base(got[0]))

	cancel()
	require.NoError(t, <-done)
}
