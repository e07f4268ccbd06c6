package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pyrite/internal/cache"
	"pyrite/internal/checker"
	"pyrite/internal/diag"
	"pyrite/internal/observ"
	"pyrite/internal/source"
	"pyrite/internal/trace"
)

// FileResult is the outcome of one file in a Check run.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Failed marks files that could not be read or analysed.
	Failed bool
	Cached bool
	// CacheErr is set when the cache could not be read or written; the file
	// was analysed anyway.
	CacheErr error
	Timings  *observ.Report
}

// ProgressEvent reports one finished file.
type ProgressEvent struct {
	Path        string
	Index       int
	Total       int
	Cached      bool
	Failed      bool
	Diagnostics int
}

// Check analyses paths with engine. Files are loaded serially, then analysed
// in parallel; every goroutine writes only its own result slot, so results
// come back in the order of paths. The returned error is non-nil only when
// ctx was cancelled; per-file failures live in the results.
func Check(ctx context.Context, paths []string, engine *checker.Engine, opts *Options) (*source.FileSet, []FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, run)

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	results := make([]FileResult, len(paths))

	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", run.ID())
	for i, p := range paths {
		results[i].Path = p
		id, err := fileSet.Load(p)
		if err != nil {
			// пустой виртуальный файл: у диагностики остаётся валидный FileID
			id = fileSet.AddVirtual(p, nil)
			file := fileSet.Get(id)
			bag := diag.NewBag(opts.MaxDiagnostics)
			bag.Add(diag.NewError(diag.IOLoadFileError, file.Span(0, 0), fmt.Sprintf("failed to read file: %v", err)))
			results[i].Bag = bag
			results[i].Failed = true
		}
		results[i].FileID = id
	}
	loadSpan.End(fmt.Sprintf("files=%d", len(paths)))

	var done counter
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i := range results {
		if results[i].Bag != nil {
			opts.progress(&results[i], done.next(), len(results))
			continue
		}
		i := i
		g.Go(func() error {
			// отмена проверяется только между файлами
			if err := gctx.Err(); err != nil {
				return err
			}
			checkOne(gctx, fileSet.Get(results[i].FileID), engine, opts, &results[i])
			opts.progress(&results[i], done.next(), len(results))
			return nil
		})
	}
	err := g.Wait()
	run.End(fmt.Sprintf("files=%d", len(paths)))
	if err != nil {
		return fileSet, results, fmt.Errorf("check cancelled: %w", err)
	}
	return fileSet, results, nil
}

func checkOne(ctx context.Context, file *source.File, engine *checker.Engine, opts *Options, res *FileResult) {
	tracer := trace.FromContext(ctx)
	store := opts.Cache

	var (
		key    cache.Key
		keyErr error
	)
	if store != nil && opts.CacheMode == cache.ModeEnabled {
		key, keyErr = store.KeyFor(file.Path, file.Content)
		if keyErr != nil {
			res.CacheErr = keyErr
			trace.Failure(tracer, trace.ScopeFile, "cache key", keyErr)
		} else {
			outcome, hit, err := store.Get(key, opts.CacheMode)
			switch {
			case err != nil:
				res.CacheErr = err
				trace.Failure(tracer, trace.ScopeFile, "cache get", err)
			case hit:
				trace.Point(tracer, trace.ScopeFile, "cache hit", file.Path)
				bag := diag.NewBag(opts.MaxDiagnostics)
				for _, d := range outcome.Restore(file.ID) {
					bag.Add(d)
				}
				res.Bag = bag
				res.Cached = true
				res.Failed = outcome.Status == cache.StatusFail
				return
			}
		}
	}

	a := AnalyzeFile(ctx, file, engine, opts)
	res.Bag = a.Bag
	res.Failed = a.Failed
	res.Timings = a.Timings

	if store == nil || keyErr != nil {
		return
	}
	if err := store.Set(key, cache.OutcomeOf(a.Bag.Items(), a.Bag.Dropped()), opts.CacheMode); err != nil {
		res.CacheErr = err
		trace.Failure(tracer, trace.ScopeFile, "cache set", err)
	}
}

func (o *Options) progress(res *FileResult, index, total int) {
	if o.Progress == nil {
		return
	}
	n := 0
	if res.Bag != nil {
		n = res.Bag.Len()
	}
	o.Progress(ProgressEvent{
		Path:        res.Path,
		Index:       index,
		Total:       total,
		Cached:      res.Cached,
		Failed:      res.Failed,
		Diagnostics: n,
	})
}
