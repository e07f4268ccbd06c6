package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pyrite/internal/diag"
)

const sample = `
[lint]
select = ["E", "F", "B"]
ignore = ["E712"]
exclude = ["build/**"]
max-diagnostics = 200
bracket-aware-join = true

[lint.per-file-ignores]
"tests/*.py" = ["B019"]
"conftest.py" = ["E7"]

[cache]
enabled = false
dir = ".pyrite-cache"
fingerprint = "stat"

[run]
jobs = 3
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	sub := filepath.Join(root, "pkg", "inner")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(sub)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	file := filepath.Join(sub, "m.py")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if got, ok, _ := Find(file); !ok || got != want {
		t.Fatalf("Find(file) = %q, %v", got, ok)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(writeConfig(t, root, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != root {
		t.Fatalf("root = %q", cfg.Root)
	}
	if !reflect.DeepEqual(cfg.Lint.Select, []string{"E", "F", "B"}) || !reflect.DeepEqual(cfg.Lint.Ignore, []string{"E712"}) {
		t.Fatalf("lint = %+v", cfg.Lint)
	}
	if cfg.Lint.MaxDiagnostics != 200 || !cfg.Lint.BracketAwareJoin || cfg.Run.Jobs != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Cache.Enabled || cfg.Cache.Fingerprint != "stat" {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if dir, err := cfg.CacheDir(); err != nil || dir != filepath.Join(root, ".pyrite-cache") {
		t.Fatalf("cache dir = %q, %v", dir, err)
	}
	// [test] не задан: остаётся значение по умолчанию
	if !reflect.DeepEqual(cfg.Test.Command, []string{"python", "-m", "unittest"}) {
		t.Fatalf("test command = %v", cfg.Test.Command)
	}
	if sel := cfg.Selection(); !sel.Enabled(diag.FlakesIfTuple) {
		t.Fatalf("F634 should be enabled by %+v", sel)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[lint]\nselekt = [\"E\"]\n", "unknown keys: lint.selekt"},
		{"unknown section", "[format]\nwidth = 3\n", "unknown keys"},
		{"unknown code", "[lint]\nselect = [\"X1\"]\n", "unknown rule codes: X1"},
		{"unknown per-file code", "[lint.per-file-ignores]\n\"a.py\" = [\"Q\"]\n", "unknown rule codes: Q"},
		{"bad fingerprint", "[cache]\nfingerprint = \"mtime\"\n", "[cache].fingerprint"},
		{"negative jobs", "[run]\njobs = -1\n", "[run].jobs"},
		{"empty command", "[test]\ncommand = []\n", "[test].command"},
		{"bad toml", "[lint\n", "failed to parse TOML"},
		{"bad glob", "[lint.per-file-ignores]\n\"[a\" = [\"E\"]\n", "bad pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestPerFileIgnores(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(writeConfig(t, root, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hook := cfg.PerFileIgnores()
	if hook == nil {
		t.Fatal("expected a per-file hook")
	}
	tests := []struct {
		path string
		want []string
	}{
		{filepath.Join(root, "tests", "test_x.py"), []string{"B019"}},
		{filepath.Join(root, "tests", "deep", "test_x.py"), nil},
		{filepath.Join(root, "pkg", "conftest.py"), []string{"E7"}},
		{filepath.Join(root, "main.py"), nil},
	}
	for _, tt := range tests {
		if got := hook(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("IgnoresFor(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if Default().PerFileIgnores() != nil {
		t.Fatal("defaults must not install a hook")
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || !cfg.Cache.Enabled || cfg.Cache.Fingerprint != "content" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestSaltTracksSettings(t *testing.T) {
	a := Default()
	b := Default()
	if a.Salt("v1") != b.Salt("v1") {
		t.Fatal("equal settings must give equal salts")
	}
	b.Lint.Ignore = []string{"E711"}
	if a.Salt("v1") == b.Salt("v1") {
		t.Fatal("ignore list must change the salt")
	}
	if a.Salt("v1") == a.Salt("v2") {
		t.Fatal("version must change the salt")
	}
}

func TestOpenCache(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(writeConfig(t, root, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store, err := cfg.OpenCache("test")
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	if store.Dir() != filepath.Join(root, ".pyrite-cache") || store.Salt() != cfg.Salt("test") {
		t.Fatalf("store dir=%q salt=%q", store.Dir(), store.Salt())
	}
}
