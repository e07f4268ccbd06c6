package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte // sha256 of Content
	Flags   FileFlags
}

// LineCol is a human-readable position: 1-based row, 1-based byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Range is a start/end pair of positions, end exclusive.
type Range struct {
	Start LineCol
	End   LineCol
}
