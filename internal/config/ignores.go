package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

type perFileIgnore struct {
	pattern string
	codes   []string
	g       glob.Glob
}

func (c *Config) compile() error {
	patterns := make([]string, 0, len(c.Lint.PerFileIgnores))
	for p := range c.Lint.PerFileIgnores {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	c.ignores = c.ignores[:0]
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("[lint.per-file-ignores] bad pattern %q: %w", p, err)
		}
		c.ignores = append(c.ignores, perFileIgnore{pattern: p, codes: c.Lint.PerFileIgnores[p], g: g})
	}
	return nil
}

// IgnoresFor returns the extra ignore prefixes for path. Patterns match the
// slash path relative to the config root, or the base name.
func (c *Config) IgnoresFor(path string) []string {
	if len(c.ignores) == 0 {
		return nil
	}
	rel := c.relative(path)
	base := filepath.Base(path)
	var out []string
	for _, ig := range c.ignores {
		if ig.g.Match(rel) || ig.g.Match(base) {
			out = append(out, ig.codes...)
		}
	}
	return out
}

// PerFileIgnores returns IgnoresFor as a driver hook, or nil when no
// patterns are configured.
func (c *Config) PerFileIgnores() func(path string) []string {
	if len(c.ignores) == 0 {
		return nil
	}
	return c.IgnoresFor
}

func (c *Config) relative(path string) string {
	if c.Root == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(c.Root, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
