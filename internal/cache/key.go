package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Fingerprint identifies one version of a file.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// IsZero reports an unset fingerprint.
func (f Fingerprint) IsZero() bool { return f == Fingerprint{} }

// Key addresses one cache entry: the path selects the slot, the fingerprint
// decides whether the stored outcome is still valid.
type Key struct {
	Path        string
	Fingerprint Fingerprint
}

// KeyForContent is the exact key: SHA-256 of the file content.
func KeyForContent(path string, content []byte) Key {
	return Key{Path: path, Fingerprint: sha256.Sum256(content)}
}

// Fingerprinter computes the fingerprint of a loaded file.
type Fingerprinter interface {
	Fingerprint(path string, content []byte) (Fingerprint, error)
}

// ContentFingerprinter hashes the content. Never gives a false hit.
type ContentFingerprinter struct{}

func (ContentFingerprinter) Fingerprint(_ string, content []byte) (Fingerprint, error) {
	return sha256.Sum256(content), nil
}

// StatFingerprinter uses size and mtime only. A file rewritten with the same
// size within the mtime granularity keeps its old outcome.
type StatFingerprinter struct{}

func (StatFingerprinter) Fingerprint(path string, _ []byte) (Fingerprint, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	buf := binary.AppendVarint(nil, st.Size())
	buf = binary.AppendVarint(buf, st.ModTime().UnixNano())
	return sha256.Sum256(buf), nil
}

// FingerprinterByName maps the config value ("content" or "stat").
func FingerprinterByName(name string) (Fingerprinter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "content":
		return ContentFingerprinter{}, nil
	case "stat":
		return StatFingerprinter{}, nil
	}
	return nil, fmt.Errorf("unknown fingerprint %q (want content or stat)", name)
}

// Salt folds settings that change analysis results into one string. Entries
// written under a different salt never hit.
func Salt(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:12])
}
