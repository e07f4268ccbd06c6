package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	// Override values (simulating build-time ldflags)
	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("info = %+v", info)
	}
	if info.Fingerprint() != "1.2.3+abc123def456" {
		t.Fatalf("fingerprint = %q", info.Fingerprint())
	}

	Version, GitCommit = "", ""
	if info := Current(); info.Version != "dev" || info.Fingerprint() != "dev" {
		t.Fatalf("empty version = %+v", info)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"nightly", "nightly"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
	}
	for _, tt := range tests {
		if got := (Info{Version: tt.in}).Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q", tt.in, got)
		}
	}
}
