// Package config loads pyrite.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pyrite/internal/cache"
	"pyrite/internal/rules"
)

// FileName is the project configuration file looked up by Find.
const FileName = "pyrite.toml"

// Config is the decoded pyrite.toml. Path and Root are empty when no file
// was found and defaults are in use.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Lint  LintConfig  `toml:"lint"`
	Cache CacheConfig `toml:"cache"`
	Run   RunConfig   `toml:"run"`
	Test  TestConfig  `toml:"test"`

	ignores []perFileIgnore
}

type LintConfig struct {
	Select           []string            `toml:"select"`
	Ignore           []string            `toml:"ignore"`
	Exclude          []string            `toml:"exclude"`
	MaxDiagnostics   int                 `toml:"max-diagnostics"`
	BracketAwareJoin bool                `toml:"bracket-aware-join"`
	PerFileIgnores   map[string][]string `toml:"per-file-ignores"`
}

type CacheConfig struct {
	Enabled     bool   `toml:"enabled"`
	Dir         string `toml:"dir"`
	Fingerprint string `toml:"fingerprint"`
}

type RunConfig struct {
	Jobs int `toml:"jobs"`
}

type TestConfig struct {
	Command []string `toml:"command"`
}

// Default returns the settings used without a pyrite.toml.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{Enabled: true, Fingerprint: "content"},
		Test:  TestConfig{Command: []string{"python", "-m", "unittest"}},
	}
}

// Find walks up from startDir to locate pyrite.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir, falling back to
// Default when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg := Default()
		if err := cfg.compile(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result. Keys the
// schema does not know are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.compile(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if unknown := c.Selection().Validate(); len(unknown) > 0 {
		return fmt.Errorf("[lint] unknown rule codes: %s", strings.Join(unknown, ", "))
	}
	for pattern, codes := range c.Lint.PerFileIgnores {
		if unknown := (rules.Selection{Ignore: codes}).Validate(); len(unknown) > 0 {
			return fmt.Errorf("[lint.per-file-ignores] %q: unknown rule codes: %s", pattern, strings.Join(unknown, ", "))
		}
	}
	if c.Lint.MaxDiagnostics < 0 {
		return fmt.Errorf("[lint].max-diagnostics must be >= 0, got %d", c.Lint.MaxDiagnostics)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs must be >= 0, got %d", c.Run.Jobs)
	}
	if _, err := cache.FingerprinterByName(c.Cache.Fingerprint); err != nil {
		return fmt.Errorf("[cache].fingerprint: %w", err)
	}
	if len(c.Test.Command) == 0 || strings.TrimSpace(c.Test.Command[0]) == "" {
		return errors.New("[test].command must not be empty")
	}
	return nil
}

// Selection returns the configured select / ignore lists.
func (c *Config) Selection() rules.Selection {
	return rules.Selection{Select: c.Lint.Select, Ignore: c.Lint.Ignore}
}

// CacheDir resolves [cache].dir: relative values are taken from the config
// root, an empty value means the per-user cache directory.
func (c *Config) CacheDir() (string, error) {
	dir := strings.TrimSpace(c.Cache.Dir)
	if dir == "" {
		return cache.DefaultDir("pyrite")
	}
	if !filepath.IsAbs(dir) && c.Root != "" {
		dir = filepath.Join(c.Root, dir)
	}
	return dir, nil
}

// OpenCache opens the store described by [cache]. The salt covers every
// setting that changes analysis results, plus version.
func (c *Config) OpenCache(extraSalt ...string) (*cache.Store, error) {
	dir, err := c.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	fp, err := cache.FingerprinterByName(c.Cache.Fingerprint)
	if err != nil {
		return nil, err
	}
	return cache.Open(dir, cache.WithFingerprinter(fp), cache.WithSalt(c.Salt(extraSalt...)))
}

// OpenTestCache opens the store gating `pyrite test`. It lives next to the
// lint store so the two never share entries.
func (c *Config) OpenTestCache(extraSalt ...string) (*cache.Store, error) {
	dir, err := c.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	fp, err := cache.FingerprinterByName(c.Cache.Fingerprint)
	if err != nil {
		return nil, err
	}
	salt := cache.Salt(append([]string{"unittest", strings.Join(c.Test.Command, " ")}, extraSalt...)...)
	return cache.Open(filepath.Join(dir, "unittest"), cache.WithFingerprinter(fp), cache.WithSalt(salt))
}

// Salt fingerprints the analysis settings.
func (c *Config) Salt(extra ...string) string {
	parts := []string{
		"select=" + strings.Join(c.Lint.Select, ","),
		"ignore=" + strings.Join(c.Lint.Ignore, ","),
		fmt.Sprintf("max=%d", c.Lint.MaxDiagnostics),
		fmt.Sprintf("join=%t", c.Lint.BracketAwareJoin),
	}
	for _, ig := range c.ignores {
		parts = append(parts, "per-file="+ig.pattern+":"+strings.Join(ig.codes, ","))
	}
	return cache.Salt(append(parts, extra...)...)
}
