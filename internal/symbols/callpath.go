package symbols

import (
	"slices"
	"strings"
)

// CallPath is a qualified dotted name split into segments, e.g.
// ["functools", "lru_cache"]. Relative imports keep their dots as the first
// segment.
type CallPath []string

// ParseCallPath splits a dotted name. Leading dots become one segment.
func ParseCallPath(dotted string) CallPath {
	if dotted == "" {
		return nil
	}
	trimmed := strings.TrimLeft(dotted, ".")
	var out CallPath
	if dots := len(dotted) - len(trimmed); dots > 0 {
		out = append(out, dotted[:dots])
	}
	if trimmed != "" {
		out = append(out, strings.Split(trimmed, ".")...)
	}
	return out
}

func (p CallPath) String() string {
	if len(p) > 0 && strings.HasPrefix(p[0], ".") {
		return p[0] + strings.Join(p[1:], ".")
	}
	return strings.Join(p, ".")
}

// Is reports whether p equals the given segments.
func (p CallPath) Is(segments ...string) bool {
	return slices.Equal(p, segments)
}

// MatchesAny reports whether p equals one of the candidates.
func (p CallPath) MatchesAny(candidates ...CallPath) bool {
	for _, c := range candidates {
		if slices.Equal(p, c) {
			return true
		}
	}
	return false
}
