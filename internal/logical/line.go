package logical

import (
	"sort"

	"pyrite/internal/source"
	"pyrite/internal/token"
)

// Mapping ties the start of one token in Line.Text to its source location.
type Mapping struct {
	Offset  int            // token start in Line.Text
	TextEnd int            // token end in Line.Text
	Source  uint32         // token start offset in the file
	SrcEnd  uint32         // token end offset in the file
	Pos     source.LineCol // token start position
	Muted   bool           // string replaced by the placeholder
	Joined  bool           // a join space precedes this token
}

// Line is one reconstructed logical line.
type Line struct {
	Text    string
	Mapping []Mapping
	Tokens  []token.Token // the non-trivia tokens, in order
	Span    source.Span   // first token start to last token end
}

// SourceOffset maps an offset in Text back to a byte offset in the file.
// Offsets inside a muted string map to the string start, offsets inside a
// join space map to the following token.
func (l *Line) SourceOffset(off int) uint32 {
	if len(l.Mapping) == 0 {
		return l.Span.Start
	}
	i := sort.Search(len(l.Mapping), func(i int) bool { return l.Mapping[i].Offset > off }) - 1
	if i < 0 {
		return l.Mapping[0].Source
	}
	m := l.Mapping[i]
	if off < m.TextEnd {
		if m.Muted {
			return m.Source
		}
		return m.Source + uint32(off-m.Offset)
	}
	if i+1 < len(l.Mapping) && l.Mapping[i+1].Joined {
		return l.Mapping[i+1].Source
	}
	return m.SrcEnd + uint32(off-m.TextEnd)
}

// SourceSpan maps a [start, end) range of Text to a file span.
func (l *Line) SourceSpan(start, end int) source.Span {
	s := l.SourceOffset(start)
	e := s
	if end > start {
		e = l.SourceOffset(end-1) + 1
	}
	if e < s {
		e = s
	}
	return source.Span{File: l.Span.File, Start: s, End: e}
}

// Position returns the source position of the first token.
func (l *Line) Position() source.LineCol {
	if len(l.Mapping) == 0 {
		return source.LineCol{}
	}
	return l.Mapping[0].Pos
}
