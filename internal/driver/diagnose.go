package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"basil/internal/diag"
	"basil/internal/observ"
	"basil/internal/project"
	"basil/internal/source"
	"basil/internal/trace"
	"basil/internal/workspace"
)

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Jobs             int
	MaxDiagnostics   int
	MaxLines         int // 0 — из basil.toml или значение по умолчанию
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	Tracer           trace.Tracer
	Observer         PhaseObserver
	// Manifest overrides discovery; nil looks for basil.toml above the first target.
	Manifest *project.Manifest
	// OnFile is called once per file after the graph is built.
	OnFile func(FileResult)
	// Progress receives per-file stage events, e.g. for the terminal UI.
	Progress ProgressSink
}

// FileResult is the outcome for one analysed file.
type FileResult struct {
	Path     string
	URI      string
	Snapshot *workspace.Snapshot // nil, если файл не прочитан
	Bag      *diag.Bag
}

// DiagnoseResult collects a whole run.
type DiagnoseResult struct {
	FileSet   *source.FileSet
	Workspace *workspace.Workspace
	Manifest  *project.Manifest // nil без basil.toml
	Files     []FileResult
	Timing    *observ.Report
}

// Bag merges the per-file bags in path order.
func (r *DiagnoseResult) Bag() *diag.Bag {
	total := 0
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	out := diag.NewBag(total)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	return out
}

// HasErrors reports whether any file has an error diagnostic.
func (r *DiagnoseResult) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnose analyses every target (files, or directories walked with the
// project's [analysis] settings) in one workspace, so references resolve
// across all of them.
func Diagnose(ctx context.Context, targets []string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	phases := newPhases(timer, opts.Observer)

	idx := phases.begin("manifest")
	manifest, err := discoverManifest(targets, opts.Manifest)
	phases.end(idx, "")
	if err != nil {
		return nil, err
	}
	cfg := project.Default()
	if manifest != nil {
		cfg = manifest.Config
	}

	idx = phases.begin("collect")
	paths, err := collectTargets(targets, cfg.Analysis)
	phases.end(idx, fmt.Sprintf("files=%d", len(paths)))
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageParse, Status: StatusQueued})
	}

	maxLines := opts.MaxLines
	if maxLines == 0 {
		maxLines = cfg.Analysis.MaxLines
	}
	ws := workspace.New(workspace.Options{
		Tracer:    opts.Tracer,
		MaxLines:  maxLines,
		Libraries: cfg.Libraries(),
		Jobs:      opts.Jobs,
		OnParsed:  func(path string, err error) {
			if err != nil {
				emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: err})
				return
			}
			emit(opts.Progress, Event{File: path, Stage: StageBind, Status: StatusWorking})
		},
	})
	if manifest != nil {
		ws.FileSet().SetBaseDir(manifest.Root)
	}

	idx = phases.begin("analyse")
	started := time.Now()
	loaded, err := ws.LoadFiles(ctx, paths)
	phases.end(idx, ws.Stats().String())
	emit(opts.Progress, Event{Stage: StageBind, Status: StatusDone, Elapsed: time.Since(started)})
	if err != nil {
		return nil, err
	}

	idx = phases.begin("collect_diagnostics")
	result := &DiagnoseResult{
		FileSet:   ws.FileSet(),
		Workspace: ws,
		Manifest:  manifest,
		Files:     make([]FileResult, 0, len(loaded)),
	}
	for _, l := range loaded {
		fr := FileResult{Path: l.Path, URI: l.URI, Bag: diag.NewBag(opts.MaxDiagnostics)}
		if l.Err != nil {
			// пустая запись в FileSet, чтобы форматтеры видели путь
			id := ws.FileSet().AddVirtual(l.Path, nil)
			fr.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, fmt.Sprintf("%s: %v", l.Path, l.Err)))
		} else {
			fr.Snapshot = ws.Snapshot(l.URI)
			if fr.Snapshot != nil {
				for _, d := range fr.Snapshot.Diagnostics() {
					fr.Bag.Add(d)
				}
			}
		}
		applySeverityPolicy(fr.Bag, opts)
		fr.Bag.Sort()
		if opts.OnFile != nil {
			opts.OnFile(fr)
		}
		status := StatusDone
		if fr.Bag.HasErrors() {
			status = StatusError
		}
		emit(opts.Progress, Event{
			File:     fr.Path,
			Stage:    StageReport,
			Status:   status,
			Err:      l.Err,
			Errors:   fr.Bag.Count(diag.SevError),
			Warnings: fr.Bag.Count(diag.SevWarning),
		})
		result.Files = append(result.Files, fr)
	}
	phases.end(idx, "")

	if timer != nil {
		report := timer.Report()
		result.Timing = &report
	}
	return result, nil
}

func applySeverityPolicy(bag *diag.Bag, opts DiagnoseOptions) {
	if opts.WarningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
	if opts.IgnoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	}
}

// discoverManifest returns explicit, else the manifest above the first
// target, else nil. A malformed manifest is an error.
func discoverManifest(targets []string, explicit *project.Manifest) (*project.Manifest, error) {
	if explicit != nil {
		return explicit, nil
	}
	if len(targets) == 0 {
		return nil, nil
	}
	start := targets[0]
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}
	m, err := project.Load(start)
	if errors.Is(err, project.ErrNoManifest) {
		return nil, nil
	}
	return m, err
}

// collectTargets expands directories and deduplicates, keeping explicit files
// even when their extension is not configured.
func collectTargets(targets []string, cfg project.AnalysisConfig) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, t := range targets {
		info, err := os.Stat(t)
		if err != nil {
			// нечитаемый файл всё равно попадает в результат с IOLoadFileError
			add(t)
			continue
		}
		if !info.IsDir() {
			add(t)
			continue
		}
		files, err := project.CollectFiles(t, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", t, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}
