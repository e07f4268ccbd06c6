// Package testrun runs the unittest modules of a project, one process per
// module, and records passing modules in the cache.
package testrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pyrite/internal/cache"
	"pyrite/internal/discover"
	"pyrite/internal/trace"
)

// ErrTestsFailed wraps the stderr of a module whose runner exited with 1.
var ErrTestsFailed = errors.New("tests failed")

// DefaultCommand runs one module with the stdlib runner.
var DefaultCommand = []string{"python", "-m", "unittest"}

type Options struct {
	// Command is prefixed to the module path; empty means DefaultCommand.
	Command []string
	// Jobs bounds parallel runners; 0 means GOMAXPROCS.
	Jobs int

	Cache     *cache.Store
	CacheMode cache.Mode

	// Progress is called from worker goroutines after each module.
	Progress func(Result)
}

// Result is the outcome of one module.
type Result struct {
	Module   discover.Module
	Cached   bool
	Err      error
	Duration time.Duration
	// CacheErr records a failed cache lookup or write; the run went on.
	CacheErr error
}

// Passed reports whether the module passed, fresh or from the cache.
func (r Result) Passed() bool { return r.Err == nil }

// Run executes every module and returns results in input order. Module
// failures land in Result.Err; the error is non-nil only on cancellation.
func Run(ctx context.Context, modules []discover.Module, opts Options) ([]Result, error) {
	results := make([]Result, len(modules))
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "test", trace.CurrentSpan(ctx)).
		WithExtra("modules", fmt.Sprint(len(modules)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range modules {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runOne(gctx, modules[i], &opts)
			if opts.Progress != nil {
				opts.Progress(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("test run cancelled: %w", err)
	}
	return results, nil
}

func runOne(ctx context.Context, m discover.Module, opts *Options) Result {
	res := Result{Module: m}
	tracer := trace.FromContext(ctx)

	var key cache.Key
	keyed := false
	if opts.Cache != nil && opts.CacheMode == cache.ModeEnabled {
		content, err := os.ReadFile(m.Path)
		if err == nil {
			key, err = opts.Cache.KeyFor(m.Path, content)
		}
		if err == nil {
			keyed = true
			outcome, hit, getErr := opts.Cache.Get(key, opts.CacheMode)
			switch {
			case getErr != nil:
				res.CacheErr = getErr
				trace.Failure(tracer, trace.ScopeFile, "cache get", getErr)
			case hit && outcome.Status == cache.StatusPass:
				trace.Point(tracer, trace.ScopeFile, "cache hit", m.Path)
				res.Cached = true
				return res
			}
		} else {
			res.CacheErr = err
		}
	}

	start := time.Now()
	res.Err = Exec(ctx, opts.Command, m)
	res.Duration = time.Since(start)
	if res.Err != nil {
		trace.Failure(tracer, trace.ScopeFile, "test runner failed", fmt.Errorf("%s: %w", m.Path, res.Err))
		return res
	}
	if keyed {
		// кешируем только успешные прогоны
		if err := opts.Cache.Set(key, cache.Outcome{Status: cache.StatusPass}, opts.CacheMode); err != nil {
			res.CacheErr = err
			trace.Failure(tracer, trace.ScopeFile, "cache set", err)
		}
	}
	return res
}

// Exec runs command with the module path relative to its root appended,
// in the root directory, and maps the exit status to an error.
func Exec(ctx context.Context, command []string, m discover.Module) error {
	if len(command) == 0 {
		command = DefaultCommand
	}
	args := append(append([]string(nil), command[1:]...), m.Rel())
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Dir = m.Root
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("start test runner: %w", err)
	}
	return statusError(exitErr.ExitCode(), stderr.String())
}

func statusError(code int, stderr string) error {
	switch code {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w:\n%s", ErrTestsFailed, strings.TrimRight(stderr, "\n"))
	case -1:
		// убит сигналом
		return errors.New("unable to determine exit status for test runner")
	default:
		return fmt.Errorf("test runner failed with status %d", code)
	}
}
