package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"basil/internal/cache"
	"basil/internal/diag"
	"basil/internal/element"
	"basil/internal/project"
	"basil/internal/workspace"
)

// OutlineOptions configures Outlines.
type OutlineOptions struct {
	Jobs     int
	MaxLines int
	Manifest *project.Manifest
	// Cache may be zero: every file is then analysed.
	Cache cache.Layered
}

// OutlineResult pairs outlines with cache statistics.
type OutlineResult struct {
	Paths    []string
	Outlines []*cache.Outline
	Errs     []error // по индексу Outlines; nil — успех
	metrics  outlineMetrics
}

type outlineMetrics struct {
	memHits  atomic.Int64
	diskHits atomic.Int64
	misses   atomic.Int64
}

// Summary returns a one-line cache report.
func (r *OutlineResult) Summary() string {
	hits := r.metrics.memHits.Load() + r.metrics.diskHits.Load()
	total := hits + r.metrics.misses.Load()
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return fmt.Sprintf("cache: %d/%d (%.1f%%), disk=%d", hits, total, rate, r.metrics.diskHits.Load())
}

// Outlines computes the document outline of every target in parallel. An
// outline depends only on its own file, so each miss is analysed in a
// private workspace.
func Outlines(ctx context.Context, targets []string, opts OutlineOptions) (*OutlineResult, error) {
	manifest, err := discoverManifest(targets, opts.Manifest)
	if err != nil {
		return nil, err
	}
	cfg := project.Default()
	var manifestDigest project.Digest
	if manifest != nil {
		cfg = manifest.Config
		manifestDigest = manifest.Digest
	}
	paths, err := collectTargets(targets, cfg.Analysis)
	if err != nil {
		return nil, err
	}
	maxLines := opts.MaxLines
	if maxLines == 0 {
		maxLines = cfg.Analysis.MaxLines
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	res := &OutlineResult{
		Paths:    paths,
		Outlines: make([]*cache.Outline, len(paths)),
		Errs:     make([]error, len(paths)),
	}
	if len(paths) == 0 {
		return res, nil
	}
	useCache := opts.Cache.Disk != nil || opts.Cache.Memory != nil

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- path comes from the command line or the project walk
			content, err := os.ReadFile(path)
			if err != nil {
				res.Errs[i] = err
				return nil
			}
			key := cache.Key(project.Sum(content), manifestDigest)
			if useCache {
				if opts.Cache.Memory != nil {
					if o, ok := opts.Cache.Memory.Get(path, key); ok {
						res.metrics.memHits.Add(1)
						res.Outlines[i] = o
						return nil
					}
				}
				if o, ok, err := opts.Cache.Get(path, key); err == nil && ok {
					res.metrics.diskHits.Add(1)
					res.Outlines[i] = o
					return nil
				}
			}
			res.metrics.misses.Add(1)

			o, err := outlineOf(gctx, path, content, maxLines)
			if err != nil {
				return err
			}
			res.Outlines[i] = o
			if useCache {
				if err := opts.Cache.Put(key, o); err != nil {
					res.Errs[i] = fmt.Errorf("cache: %w", err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func outlineOf(ctx context.Context, path string, content []byte, maxLines int) (*cache.Outline, error) {
	ws := workspace.New(workspace.Options{MaxLines: maxLines})
	snap, err := ws.Update(ctx, path, 0, content)
	if err != nil {
		return nil, err
	}
	o := &cache.Outline{Path: path, Symbols: snap.Symbols()}
	for _, s := range o.Symbols {
		if s.Kind == element.SymbolModule || s.Kind == element.SymbolClass {
			o.Module = s.Name
			break
		}
	}
	for _, d := range snap.Diagnostics() {
		if d.Code == diag.SynParseError {
			o.ParseErrors++
		}
	}
	return o, nil
}
