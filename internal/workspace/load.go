package workspace

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"basil/internal/parser"
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/trace"
)

// LoadResult reports one file of a LoadFiles batch.
type LoadResult struct {
	Path string
	URI  string
	Err  error // ошибка чтения; такой файл не попадает в граф
}

type loaded struct {
	file *source.File
	tree *syntax.Tree
	err  error
}

// LoadFiles reads and parses paths in parallel, then binds them in input order
// and builds the graph once. Read errors are reported per file and do not
// abort the batch; only ctx cancellation does.
func (w *Workspace) LoadFiles(ctx context.Context, paths []string) ([]LoadResult, error) {
	span := trace.Begin(w.tracer, trace.ScopeWorkspace, "workspace.load", trace.ParentID(ctx)).
		WithCount("files", len(paths))
	defer span.End("")

	results := make([]LoadResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	jobs := w.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	limit := w.MaxLines()

	// индексы уникальны для каждой горутины, мьютекс не нужен
	parsed := make([]loaded, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		results[i] = LoadResult{Path: path, URI: source.PathToURI(path)}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- path is provided by the caller
			content, err := os.ReadFile(path)
			if err != nil {
				parsed[i].err = err
				w.notifyParsed(path, err)
				return nil
			}
			file := w.fs.Get(w.fs.Replace(path, content, 0))
			parsed[i].file = file
			if file.LineCount() <= limit {
				parsed[i].tree = parser.Parse(file, parser.Options{})
			}
			w.notifyParsed(path, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range paths {
		if parsed[i].err != nil {
			results[i].Err = parsed[i].err
			trace.Warnf(w.tracer, trace.ScopeDocument, "workspace.load", "%s: %v", paths[i], parsed[i].err)
			continue
		}
		d := w.doc(results[i].URI, true)
		d.token.Add(1)
		d.version = 0
		w.bindLocked(d, parsed[i].file, parsed[i].tree)
	}
	w.buildAndPublishLocked()
	return results, nil
}

func (w *Workspace) notifyParsed(path string, err error) {
	if w.parsed != nil {
		w.parsed(path, err)
	}
}
