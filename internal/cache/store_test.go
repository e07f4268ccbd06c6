package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

func mustOpen(t *testing.T, dir string, opts ...Option) *Store {
	t.Helper()
	s, err := Open(dir, opts...)
	if err != nil {
		t.Fatalf("Open(%q): %v", dir, err)
	}
	return s
}

func failOutcome() Outcome {
	d := diag.New(diag.SevWarning, diag.FlakesIfTuple, source.Span{Start: 0, End: 12}, "If test is a tuple")
	return OutcomeOf([]diag.Diagnostic{d, diag.NewError(diag.AnalysisFailed, source.Span{}, "could not analyze")}, 0)
}

func TestCacheLawEnabled(t *testing.T) {
	s := mustOpen(t, "")
	key := KeyForContent("a.py", []byte("x = 1\n"))

	if _, hit, err := s.Get(key, ModeEnabled); err != nil || hit {
		t.Fatalf("empty store: hit=%v err=%v", hit, err)
	}
	if err := s.Set(key, Outcome{Status: StatusPass}, ModeEnabled); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := s.Get(key, ModeEnabled)
	if err != nil || !hit {
		t.Fatalf("after Set: hit=%v err=%v", hit, err)
	}
	if got.Status != StatusPass {
		t.Fatalf("status = %v, want pass", got.Status)
	}

	// другой контент - промах
	changed := KeyForContent("a.py", []byte("x = 2\n"))
	if _, hit, _ := s.Get(changed, ModeEnabled); hit {
		t.Fatal("changed content must miss")
	}
}

func TestCacheLawDisabled(t *testing.T) {
	s := mustOpen(t, "")
	key := KeyForContent("a.py", []byte("pass\n"))

	if err := s.Set(key, Outcome{}, ModeDisabled); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("disabled Set stored %d entries", s.Len())
	}
	if err := s.Set(key, Outcome{}, ModeEnabled); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := s.Get(key, ModeDisabled); hit {
		t.Fatal("disabled Get must never hit")
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	key := KeyForContent("pkg/m.py", []byte("if (1, 2):\n    pass\n"))

	first := mustOpen(t, dir, WithSalt("s1"))
	if err := first.Set(key, failOutcome(), ModeEnabled); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := mustOpen(t, dir, WithSalt("s1"))
	got, hit, err := second.Get(key, ModeEnabled)
	if err != nil || !hit {
		t.Fatalf("reopened store: hit=%v err=%v", hit, err)
	}
	if got.Status != StatusFail || len(got.Diagnostics) != 2 {
		t.Fatalf("outcome = %+v", got)
	}

	other := mustOpen(t, dir, WithSalt("s2"))
	if _, hit, _ := other.Get(key, ModeEnabled); hit {
		t.Fatal("entry written under another salt must miss")
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	s := mustOpen(t, dir)
	key := KeyForContent("old.py", nil)

	data, err := msgpack.Marshal(&Entry{Schema: schemaVersion + 1, Path: key.Path, Fingerprint: key.Fingerprint})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(s.pathFor(key.Path), data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := s.read(key.Path); !errors.Is(err, ErrSchema) {
		t.Fatalf("read err = %v, want ErrSchema", err)
	}
	if _, hit, err := s.Get(key, ModeEnabled); hit || err != nil {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
}

func TestCorruptEntryReportsError(t *testing.T) {
	dir := t.TempDir()
	s := mustOpen(t, dir)
	key := KeyForContent("bad.py", nil)
	if err := os.WriteFile(s.pathFor(key.Path), []byte{0xc1}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, hit, err := s.Get(key, ModeEnabled); hit || err == nil {
		t.Fatalf("Get: hit=%v err=%v, want decode error", hit, err)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	s := mustOpen(t, dir)
	key := KeyForContent("a.py", []byte("a"))
	if err := s.Set(key, Outcome{}, ModeEnabled); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := s.Get(key, ModeEnabled); hit {
		t.Fatal("hit after Clear")
	}
	entries, err := os.ReadDir(filepath.Join(dir, "entries"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries left after Clear: %d", len(entries))
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	s := mustOpen(t, t.TempDir())
	const n = 32
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = KeyForContent(fmt.Sprintf("m%02d.py", i), []byte{byte(i)})
	}

	var wg sync.WaitGroup
	for i := range keys {
		wg.Add(1)
		go func(k Key) {
			defer wg.Done()
			if err := s.Set(k, Outcome{Status: StatusPass}, ModeEnabled); err != nil {
				t.Errorf("Set(%s): %v", k.Path, err)
			}
		}(keys[i])
	}
	wg.Wait()

	for _, k := range keys {
		if _, hit, err := s.Get(k, ModeEnabled); !hit || err != nil {
			t.Fatalf("Get(%s): hit=%v err=%v", k.Path, hit, err)
		}
	}
}

func TestStatFingerprinter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := mustOpen(t, "", WithFingerprinter(StatFingerprinter{}))
	a, err := s.KeyFor(path, nil)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	b, err := s.KeyFor(path, nil)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	if a != b || a.Fingerprint.IsZero() {
		t.Fatalf("unstable stat fingerprint: %s vs %s", a.Fingerprint, b.Fingerprint)
	}
	if _, err := s.KeyFor(filepath.Join(t.TempDir(), "missing.py"), nil); err == nil {
		t.Fatal("expected stat error for a missing file")
	}
}

func TestRestoreRebindsSpans(t *testing.T) {
	d := diag.New(diag.SevWarning, diag.StyleNoneComparison, source.Span{File: 3, Start: 4, End: 13}, "Comparison to `None` should be `cond is None`").
		WithFix(diag.Fix{
			Title:         "Replace with `is`",
			Applicability: diag.FixAlwaysSafe,
			Edits:         []diag.TextEdit{{Span: source.Span{File: 3, Start: 6, End: 8}, NewText: "is", OldText: "=="}},
		})
	out := OutcomeOf([]diag.Diagnostic{d}, 0)
	if out.Status != StatusPass {
		t.Fatalf("warnings only must pass, got %v", out.Status)
	}

	got := out.Restore(7)
	if len(got) != 1 {
		t.Fatalf("restored %d diagnostics", len(got))
	}
	r := got[0]
	if r.Primary != (source.Span{File: 7, Start: 4, End: 13}) || r.Code != d.Code || r.Message != d.Message {
		t.Fatalf("restored = %+v", r)
	}
	if len(r.Fixes) != 1 || r.Fixes[0].Edits[0].Span.File != 7 || r.Fixes[0].Edits[0].OldText != "==" {
		t.Fatalf("restored fix = %+v", r.Fixes)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeEnabled, "on": ModeEnabled, "Disabled": ModeDisabled, "false": ModeDisabled} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if ModeFromBool(false) != ModeDisabled {
		t.Fatal("ModeFromBool(false)")
	}
}
