// Package discover finds the Python files below a set of roots.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for an exclude glob doublestar cannot parse.
var ErrBadPattern = errors.New("invalid exclude pattern")

// Options controls a walk.
type Options struct {
	// Exclude holds doublestar globs matched against the root-relative,
	// slash-separated path. A matching directory is not descended into.
	Exclude []string
	// Tests keeps only unittest modules (*_test.py and test_*.py).
	Tests bool
}

// Module is one discovered file and the root it was found under.
type Module struct {
	Root string
	Path string
}

// Rel returns the path relative to Root, slash-separated.
func (m Module) Rel() string {
	rel, err := filepath.Rel(m.Root, m.Path)
	if err != nil {
		return filepath.ToSlash(m.Path)
	}
	return filepath.ToSlash(rel)
}

// Collect returns the sorted, deduplicated *.py files below roots.
func Collect(roots []string, opts Options) ([]string, error) {
	modules, err := CollectModules(roots, opts)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(modules))
	for _, m := range modules {
		paths = append(paths, m.Path)
	}
	return paths, nil
}

// CollectModules is Collect keeping the root of every file. A root that
// names a file is taken as is, provided it is not excluded.
func CollectModules(roots []string, opts Options) ([]Module, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	w := &walker{opts: opts, seen: make(map[string]struct{})}
	for _, root := range roots {
		if err := w.walkRoot(filepath.Clean(root)); err != nil {
			return nil, err
		}
	}
	sort.Slice(w.result, func(i, j int) bool { return w.result[i].Path < w.result[j].Path })
	return w.result, nil
}

type walker struct {
	opts   Options
	seen   map[string]struct{}
	result []Module
}

func (w *walker) walkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access %q: %w", root, err)
	}
	if !info.IsDir() {
		dir := filepath.Dir(root)
		if !w.excluded(filepath.Base(root)) {
			w.add(dir, root)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		// скрытые записи ниже корня пропускаем, сам корень может быть скрытым
		if strings.HasPrefix(name, ".") || w.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !w.wanted(name) {
			return nil
		}
		w.add(root, path)
		return nil
	})
}

func (w *walker) excluded(rel string) bool {
	for _, p := range w.opts.Exclude {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *walker) wanted(name string) bool {
	if filepath.Ext(name) != ".py" {
		return false
	}
	if !w.opts.Tests {
		return true
	}
	return IsTestModule(name)
}

func (w *walker) add(root, path string) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = struct{}{}
	w.result = append(w.result, Module{Root: root, Path: path})
}

// IsTestModule reports whether a file name follows the unittest naming
// conventions.
func IsTestModule(name string) bool {
	base := filepath.Base(name)
	if filepath.Ext(base) != ".py" {
		return false
	}
	stem := strings.TrimSuffix(base, ".py")
	return strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test")
}
