package testrun

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"pyrite/internal/cache"
	"pyrite/internal/discover"
)

// fakeRunner stands in for `python -m unittest`: the module path arrives as
// $1 and every invocation is appended to log.
func fakeRunner(t *testing.T, log string) []string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := `echo "$1" >> "` + log + `"
case "$1" in
  *fail*) echo "AssertionError: boom" >&2; exit 1 ;;
  *crash*) exit 3 ;;
  *killed*) kill -KILL $$ ;;
esac
exit 0`
	return []string{"sh", "-c", script, "sh"}
}

func modules(t *testing.T, root string, names ...string) []discover.Module {
	t.Helper()
	out := make([]discover.Module, 0, len(names))
	for _, n := range names {
		path := filepath.Join(root, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("import unittest\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		out = append(out, discover.Module{Root: root, Path: path})
	}
	return out
}

func invocations(t *testing.T, log string) []string {
	t.Helper()
	data, err := os.ReadFile(log)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Fields(string(data))
}

func TestExecStatuses(t *testing.T) {
	root := t.TempDir()
	cmd := fakeRunner(t, filepath.Join(root, "log"))
	mods := modules(t, root, "pkg/ok_test.py", "fail_test.py", "crash_test.py", "killed_test.py")

	if err := Exec(context.Background(), cmd, mods[0]); err != nil {
		t.Fatalf("ok: %v", err)
	}
	err := Exec(context.Background(), cmd, mods[1])
	if !errors.Is(err, ErrTestsFailed) || !strings.Contains(err.Error(), "AssertionError: boom") {
		t.Fatalf("fail: %v", err)
	}
	if err := Exec(context.Background(), cmd, mods[2]); err == nil || err.Error() != "test runner failed with status 3" {
		t.Fatalf("crash: %v", err)
	}
	if err := Exec(context.Background(), cmd, mods[3]); err == nil || !strings.Contains(err.Error(), "unable to determine exit status") {
		t.Fatalf("killed: %v", err)
	}
	// путь передаётся относительно корня
	if got := invocations(t, filepath.Join(root, "log")); len(got) != 4 || got[0] != "pkg/ok_test.py" {
		t.Fatalf("invocations = %v", got)
	}
}

func TestExecMissingBinary(t *testing.T) {
	m := discover.Module{Root: t.TempDir(), Path: "x_test.py"}
	err := Exec(context.Background(), []string{"pyrite-no-such-runner"}, m)
	if err == nil || !strings.Contains(err.Error(), "start test runner") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCachesPassesOnly(t *testing.T) {
	root := t.TempDir()
	log := filepath.Join(root, "log")
	store, err := cache.Open(filepath.Join(root, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	mods := modules(t, root, "a_test.py", "fail_test.py", "test_b.py")
	opts := Options{Command: fakeRunner(t, log), Jobs: 2, Cache: store, CacheMode: cache.ModeEnabled}

	first, err := Run(context.Background(), mods, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !first[0].Passed() || first[1].Passed() || !first[2].Passed() {
		t.Fatalf("first run = %+v", first)
	}
	if len(invocations(t, log)) != 3 {
		t.Fatalf("first run invocations = %v", invocations(t, log))
	}

	second, err := Run(context.Background(), mods, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !second[0].Cached || second[1].Cached || !second[2].Cached {
		t.Fatalf("second run = %+v", second)
	}
	got := invocations(t, log)
	if len(got) != 4 || got[3] != "fail_test.py" {
		t.Fatalf("second run must only rerun the failure, invocations = %v", got)
	}

	// изменённый модуль снова запускается
	if err := os.WriteFile(mods[0].Path, []byte("import unittest  # edited\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := Run(context.Background(), mods[:1], opts)
	if err != nil || third[0].Cached {
		t.Fatalf("third run = %+v, %v", third, err)
	}
}

func TestRunDisabledCache(t *testing.T) {
	root := t.TempDir()
	log := filepath.Join(root, "log")
	store, err := cache.Open("")
	if err != nil {
		t.Fatal(err)
	}
	mods := modules(t, root, "a_test.py")
	opts := Options{Command: fakeRunner(t, log), Cache: store, CacheMode: cache.ModeDisabled}
	for i := 0; i < 2; i++ {
		res, err := Run(context.Background(), mods, opts)
		if err != nil || res[0].Cached || !res[0].Passed() {
			t.Fatalf("res = %+v, err = %v", res, err)
		}
	}
	if n := len(invocations(t, log)); n != 2 {
		t.Fatalf("invocations = %d, want 2", n)
	}
	if store.Len() != 0 {
		t.Fatalf("disabled mode wrote %d entries", store.Len())
	}
}

func TestRunProgressAndCancel(t *testing.T) {
	root := t.TempDir()
	mods := modules(t, root, "a_test.py", "b_test.py")
	var seen int
	opts := Options{Command: fakeRunner(t, filepath.Join(root, "log")), Jobs: 1, Progress: func(Result) { seen++ }}
	if _, err := Run(context.Background(), mods, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != 2 {
		t.Fatalf("progress calls = %d", seen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, mods, opts); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
