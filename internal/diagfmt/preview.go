package diagfmt

import (
	"fmt"
	"strings"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// editPreview holds the whole lines touched by one edit, before and after.
type editPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)
	r := fs.Range(edit.Span)

	blockStart := lineStart(file, r.Start.Line)
	blockEnd := min(max(lineEndInclusive(file, max(r.End.Line, r.Start.Line)), blockStart), file.Len())
	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return editPreview{}, fmt.Errorf("edit span %v out of range for preview block", edit.Span)
	}

	original := file.Content[blockStart:blockEnd]
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	var after strings.Builder
	after.Grow(len(original) + len(edit.NewText))
	after.Write(original[:relStart])
	after.WriteString(edit.NewText)
	after.Write(original[relEnd:])

	return editPreview{
		before: splitPreviewLines(string(original)),
		after:  splitPreviewLines(after.String()),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// завершающий \n не даёт лишней пустой строки
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// lineStart is the offset of the first byte of row line (1-based).
func lineStart(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := int(line) - 2; idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.Len()
}

// lineEndInclusive is the offset just past the newline ending row line.
func lineEndInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if idx := int(line) - 1; idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.Len()
}
