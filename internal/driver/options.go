package driver

import (
	"runtime"

	"pyrite/internal/cache"
	"pyrite/internal/rules"
)

// Options configure one analysis run.
type Options struct {
	Selection rules.Selection
	// PerFileIgnores returns extra ignore prefixes for a path. May be nil.
	PerFileIgnores func(path string) []string
	// MaxDiagnostics caps one file's result (<= 0: no cap).
	MaxDiagnostics   int
	BracketAwareJoin bool
	TabSize          uint32
	EnableTimings    bool

	// Jobs bounds parallel file analyses; 0 means GOMAXPROCS.
	Jobs int
	// BaseDir is the FileSet base for relative paths.
	BaseDir string

	Cache     *cache.Store
	CacheMode cache.Mode

	// Progress is called from worker goroutines; it must be safe for
	// concurrent use.
	Progress func(ProgressEvent)
}

func (o *Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// selectionFor merges the per-file ignores of path into the selection.
func (o *Options) selectionFor(path string) rules.Selection {
	sel := o.Selection
	if o.PerFileIgnores == nil {
		return sel
	}
	extra := o.PerFileIgnores(path)
	if len(extra) == 0 {
		return sel
	}
	sel.Ignore = append(append([]string(nil), sel.Ignore...), extra...)
	return sel
}
