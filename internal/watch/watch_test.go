package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultMatch(t *testing.T) {
	tests := map[string]bool{
		"a.py":           true,
		"/x/pkg/b.py":    true,
		"/x/pyrite.toml": true,
		"/x/notes.txt":   false,
		"/x/a.pyc":       false,
		"/x/other.toml":  false,
	}
	for path, want := range tests {
		if got := DefaultMatch(path); got != want {
			t.Errorf("DefaultMatch(%q) = %v", path, got)
		}
	}
}

func TestRunRerunsOnChange(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "m.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{root}, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			runs <- changed
			return nil
		})
	}()

	select {
	case changed := <-runs:
		if changed != nil {
			t.Fatalf("initial run got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial run")
	}

	// не-Python файлы не запускают повтор
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("x = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case changed := <-runs:
		if len(changed) != 1 || changed[0] != target {
			t.Fatalf("changed = %v, want [%s]", changed, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rerun after change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestRunNewDirectory(t *testing.T) {
	root := t.TempDir()
	w, err := New([]string{root}, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan []string, 8)
	go func() {
		_ = w.Run(ctx, func(_ context.Context, changed []string) error {
			runs <- changed
			return nil
		})
	}()
	<-runs

	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// даём циклу подписаться на новый каталог
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(sub, "mod.py")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-runs:
			for _, p := range changed {
				if p == target {
					return
				}
			}
		case <-deadline:
			t.Fatalf("no rerun for %s", target)
		}
	}
}

func TestRunStopsOnError(t *testing.T) {
	w, err := New([]string{t.TempDir()}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = w.Close() }()
	boom := errors.New("boom")
	if err := w.Run(context.Background(), func(context.Context, []string) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing")}, Options{}); err == nil {
		t.Fatal("expected error")
	}
}
