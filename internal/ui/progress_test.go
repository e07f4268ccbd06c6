package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"pyrite/internal/discover"
	"pyrite/internal/driver"
	"pyrite/internal/testrun"
)

func TestCheckEvent(t *testing.T) {
	tests := []struct {
		ev     driver.ProgressEvent
		status Status
		detail string
	}{
		{driver.ProgressEvent{Path: "a.py"}, StatusClean, ""},
		{driver.ProgressEvent{Path: "a.py", Diagnostics: 2}, StatusIssues, "2 diagnostics"},
		{driver.ProgressEvent{Path: "a.py", Diagnostics: 1, Cached: true}, StatusCached, "1 diagnostics"},
		{driver.ProgressEvent{Path: "a.py", Diagnostics: 1, Failed: true, Cached: true}, StatusFailed, "1 diagnostics"},
	}
	for _, tt := range tests {
		got := CheckEvent(tt.ev)
		if got.Status != tt.status || got.Detail != tt.detail {
			t.Errorf("CheckEvent(%+v) = %+v", tt.ev, got)
		}
	}
}

func TestTestEvent(t *testing.T) {
	m := discover.Module{Root: "/r", Path: "/r/a_test.py"}
	if ev := TestEvent(testrun.Result{Module: m, Err: errors.New("x")}); ev.Status != StatusFailed || ev.Path != m.Path {
		t.Fatalf("failed = %+v", ev)
	}
	if ev := TestEvent(testrun.Result{Module: m, Cached: true}); ev.Status != StatusCached {
		t.Fatalf("cached = %+v", ev)
	}
	if ev := TestEvent(testrun.Result{Module: m}); ev.Status != StatusClean || ev.Detail == "" {
		t.Fatalf("passed = %+v", ev)
	}
}

func TestProgressModel(t *testing.T) {
	events := make(chan Event)
	model := NewProgressModel("checking", []string{"a.py", "b.py"}, events).(*progressModel)

	view := model.View()
	if !strings.Contains(view, "checking (0/2)") || strings.Count(view, "queued") != 2 {
		t.Fatalf("initial view:\n%s", view)
	}

	model.Update(eventMsg{Path: "b.py", Status: StatusIssues, Detail: "3 diagnostics"})
	model.Update(eventMsg{Path: "unknown.py", Status: StatusClean})
	view = model.View()
	if !strings.Contains(view, "checking (1/2)") || !strings.Contains(view, "b.py  3 diagnostics") {
		t.Fatalf("view after event:\n%s", view)
	}

	_, cmd := model.Update(doneMsg{})
	if cmd == nil || !model.done {
		t.Fatal("done must quit")
	}
	if !strings.Contains(model.View(), "done: checking (1/2)") {
		t.Fatalf("final view:\n%s", model.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdefghij", 8); got != "abcde..." || runewidth.StringWidth(got) != 8 {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("日本語", 2); got != "日" {
		t.Fatalf("got %q", got)
	}
}
