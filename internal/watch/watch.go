// Package watch re-runs a callback whenever files below a set of roots
// change. Changes are debounced; a run in progress is never interrupted and
// changes made during it trigger the next run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"pyrite/internal/trace"
)

// DefaultDebounce is the quiet period before a run starts.
const DefaultDebounce = 2 * time.Second

// Options configure a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change; 0 means
	// DefaultDebounce.
	Debounce time.Duration
	// Match selects the paths that trigger a run; nil means Python sources
	// and pyrite.toml.
	Match func(path string) bool
}

// RunFunc performs one run. changed is nil for the initial run and holds
// the sorted changed paths afterwards. A returned error stops the loop.
type RunFunc func(ctx context.Context, changed []string) error

// Watcher owns one fsnotify watcher over the directories below roots.
type Watcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
}

// New starts watching every non-hidden directory below roots. A root that is
// a file is watched through its directory.
func New(roots []string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{w: fw, debounce: opts.Debounce, match: opts.Match}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = DefaultMatch
	}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// DefaultMatch accepts *.py files and pyrite.toml.
func DefaultMatch(path string) bool {
	base := filepath.Base(path)
	return filepath.Ext(base) == ".py" || base == "pyrite.toml"
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.w.Close()
}

func (w *Watcher) addRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %q: %w", root, err)
	}
	if !info.IsDir() {
		return w.w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.w.Add(path)
	})
}

// Run calls fn once immediately and again after every debounced batch of
// matching changes, until ctx is done or fn fails.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	tracer := trace.FromContext(ctx)
	if err := fn(ctx, nil); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						trace.Failure(tracer, trace.ScopeDriver, "watch add", err)
					}
				}
			}
			if (ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write)) || !w.match(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			trace.Failure(tracer, trace.ScopeDriver, "watch", err)
		case <-timerC:
			timer, timerC = nil, nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			trace.Point(tracer, trace.ScopeDriver, "watch rerun", fmt.Sprintf("%d changed", len(changed)))
			// события, пришедшие во время прогона, ждут в канале до следующего
			if err := fn(ctx, changed); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}
