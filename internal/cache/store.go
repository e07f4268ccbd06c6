package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

// ErrSchema marks an entry written by another schema version. Such entries
// are misses, never errors, for callers of Get.
var ErrSchema = errors.New("cache entry schema mismatch")

// Entry is the persisted form of one file's outcome.
type Entry struct {
	Schema      uint16
	Path        string
	Fingerprint Fingerprint
	Salt        string
	Outcome     Outcome
}

// Store maps a file path to its last outcome. An in-memory map fronts one
// msgpack file per path under dir. Thread-safe for concurrent access;
// concurrent Set on the same key is last-writer-wins.
type Store struct {
	mu   sync.RWMutex
	dir  string
	salt string
	fp   Fingerprinter
	mem  map[string]Entry
}

// Option configures Open.
type Option func(*Store)

// WithSalt sets the settings fingerprint entries must match.
func WithSalt(salt string) Option {
	return func(s *Store) { s.salt = salt }
}

// WithFingerprinter replaces the default ContentFingerprinter.
func WithFingerprinter(fp Fingerprinter) Option {
	return func(s *Store) {
		if fp != nil {
			s.fp = fp
		}
	}
}

// Open returns a store persisted under dir. An empty dir gives a memory-only
// store.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir: dir,
		fp:  ContentFingerprinter{},
		mem: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if dir != "" {
		if err := os.MkdirAll(s.entriesDir(), 0o755); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	return s, nil
}

// DefaultDir is $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Dir returns the backing directory ("" for memory-only stores).
func (s *Store) Dir() string { return s.dir }

// Salt returns the settings fingerprint of this store.
func (s *Store) Salt() string { return s.salt }

// KeyFor computes the key of a loaded file with the store's fingerprinter.
func (s *Store) KeyFor(path string, content []byte) (Key, error) {
	fp, err := s.fp.Fingerprint(path, content)
	if err != nil {
		return Key{}, err
	}
	return Key{Path: path, Fingerprint: fp}, nil
}

// Get returns the stored outcome for key. It hits only when mode is enabled
// and the entry's fingerprint, salt and schema all match.
func (s *Store) Get(key Key, mode Mode) (Outcome, bool, error) {
	if s == nil || mode == ModeDisabled {
		return Outcome{}, false, nil
	}
	s.mu.RLock()
	entry, ok := s.mem[key.Path]
	s.mu.RUnlock()

	if !ok && s.dir != "" {
		loaded, found, err := s.read(key.Path)
		switch {
		case errors.Is(err, ErrSchema):
			return Outcome{}, false, nil
		case err != nil:
			return Outcome{}, false, err
		case found:
			entry, ok = loaded, true
			s.mu.Lock()
			if _, raced := s.mem[key.Path]; !raced {
				s.mem[key.Path] = loaded
			}
			s.mu.Unlock()
		}
	}
	if !ok || entry.Fingerprint != key.Fingerprint || entry.Salt != s.salt {
		return Outcome{}, false, nil
	}
	return entry.Outcome, true, nil
}

// Set upserts the outcome for key. No-op when mode is disabled.
func (s *Store) Set(key Key, outcome Outcome, mode Mode) error {
	if s == nil || mode == ModeDisabled {
		return nil
	}
	entry := Entry{
		Schema:      schemaVersion,
		Path:        key.Path,
		Fingerprint: key.Fingerprint,
		Salt:        s.salt,
		Outcome:     outcome,
	}
	s.mu.Lock()
	s.mem[key.Path] = entry
	s.mu.Unlock()
	if s.dir == "" {
		return nil
	}
	return s.write(&entry)
}

// Len counts the entries currently held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mem)
}

// Clear drops every entry, in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem = make(map[string]Entry)
	if s.dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.entriesDir()); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return os.MkdirAll(s.entriesDir(), 0o755)
}

func (s *Store) entriesDir() string {
	// Clear удаляет только этот подкаталог
	return filepath.Join(s.dir, "entries")
}

func (s *Store) pathFor(path string) string {
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(s.entriesDir(), hex.EncodeToString(sum[:16])+".mp")
}

func (s *Store) read(path string) (Entry, bool, error) {
	f, err := os.Open(s.pathFor(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	defer func() { _ = f.Close() }()

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry for %s: %w", path, err)
	}
	if entry.Schema != schemaVersion {
		return Entry{}, false, fmt.Errorf("%s: %w (got %d, want %d)", path, ErrSchema, entry.Schema, schemaVersion)
	}
	if entry.Path != path {
		// коллизия префикса хэша: считаем промахом
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *Store) write(entry *Entry) error {
	p := s.pathFor(entry.Path)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode cache entry for %s: %w", entry.Path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
