package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the pyrite CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the trimmed build metadata; an empty version reads "dev".
func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Fingerprint identifies the build in cache salts: results cached by one
// build are never served to another.
func (i Info) Fingerprint() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return i.Version + "+" + i.GitCommit
}

// Colored renders major.minor.patch in three colors, keeping any suffix
// plain. Versions that do not split into three parts are returned as is.
func (i Info) Colored() string {
	core, suffix, hasSuffix := strings.Cut(i.Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return i.Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}
