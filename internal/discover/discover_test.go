package discover

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x = 1\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func rels(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"b.py",
		"a.py",
		"notes.txt",
		"pkg/__init__.py",
		"pkg/mod.py",
		".venv/lib/site.py",
		"pkg/.hidden.py",
		"build/gen.py",
		"pkg/migrations/0001_init.py",
	)

	tests := []struct {
		name    string
		exclude []string
		want    []string
	}{
		{"all", nil, []string{"a.py", "b.py", "build/gen.py", "pkg/__init__.py", "pkg/migrations/0001_init.py", "pkg/mod.py"}},
		{"exclude dir", []string{"build"}, []string{"a.py", "b.py", "pkg/__init__.py", "pkg/migrations/0001_init.py", "pkg/mod.py"}},
		{"exclude deep glob", []string{"**/migrations/*.py", "b.py"}, []string{"a.py", "build/gen.py", "pkg/__init__.py", "pkg/mod.py"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect([]string{root}, Options{Exclude: tt.exclude})
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if r := rels(t, root, got); !reflect.DeepEqual(r, tt.want) {
				t.Fatalf("got %v, want %v", r, tt.want)
			}
		})
	}
}

func TestCollectHiddenRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".project")
	writeTree(t, root, "m.py", ".cache/x.py")
	got, err := Collect([]string{root}, Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if r := rels(t, root, got); !reflect.DeepEqual(r, []string{"m.py"}) {
		t.Fatalf("got %v", r)
	}
}

func TestCollectDedupAndFileRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.py", "b.py")
	file := filepath.Join(root, "a.py")
	got, err := CollectModules([]string{root, file}, Options{})
	if err != nil {
		t.Fatalf("CollectModules: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Rel() != "a.py" || got[1].Rel() != "b.py" {
		t.Fatalf("rel paths = %q, %q", got[0].Rel(), got[1].Rel())
	}
}

func TestCollectTests(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "foo_test.py", "test_bar.py", "baz.py", "pkg/test_mod.py", "testing.py")
	got, err := Collect([]string{root}, Options{Tests: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"foo_test.py", "pkg/test_mod.py", "test_bar.py"}
	if r := rels(t, root, got); !reflect.DeepEqual(r, want) {
		t.Fatalf("got %v, want %v", r, want)
	}
}

func TestCollectErrors(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "missing")}, Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, err := Collect([]string{t.TempDir()}, Options{Exclude: []string{"[a-"}}); !errors.Is(err, ErrBadPattern) {
		t.Fatalf("err = %v, want ErrBadPattern", err)
	}
}
