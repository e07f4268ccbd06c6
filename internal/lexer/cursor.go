package lexer

import (
	"fmt"

	"pyrite/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte position inside a file.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive upper bound for Off
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump advances one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved offset used to build spans.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// HasPrefix reports whether the remaining input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		n, err := safecast.Conv[uint32](i)
		if err != nil || c.PeekAt(n) != s[i] || c.Off+n >= c.Limit {
			return false
		}
	}
	return true
}
