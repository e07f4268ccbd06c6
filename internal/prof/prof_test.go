package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesFiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	if !opts.Enabled() {
		t.Fatal("options must be enabled")
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, p := range []string{opts.CPU, opts.Mem, opts.Trace} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("%s: %v", p, err)
		}
	}
}

func TestStartError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.pprof")
	if _, err := Start(Options{CPU: missing}); err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if (Options{}).Enabled() {
		t.Fatal("empty options must be disabled")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}
