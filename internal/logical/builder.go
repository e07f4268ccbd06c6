package logical

import (
	"strings"

	"pyrite/internal/source"
	"pyrite/internal/token"
)

// MutedString replaces every string literal in a logical line.
const MutedString = `""`

// Options tune line reconstruction.
type Options struct {
	// BracketAwareJoin skips the join space after an opening bracket and
	// before a closing one. Off by default: the space is always inserted
	// between tokens that sit on different rows.
	BracketAwareJoin bool
}

// Build groups tokens into logical lines. A line ends at a Newline seen at
// bracket depth zero; tokens accumulated after the last such Newline (an
// unterminated bracket at EOF) do not form a line.
func Build(file *source.File, tokens []token.Token, opts Options) []Line {
	var (
		lines []Line
		acc   []token.Token
		depth int
	)
	for _, tok := range tokens {
		switch {
		case tok.Kind.IsOpenBracket():
			depth++
		case tok.Kind.IsCloseBracket():
			depth--
		}
		acc = append(acc, tok)
		if tok.Kind == token.Newline && depth == 0 {
			if line, ok := buildLine(file, acc, opts); ok {
				lines = append(lines, line)
			}
			acc = acc[:0]
		}
	}
	return lines
}

func buildLine(file *source.File, tokens []token.Token, opts Options) (Line, bool) {
	var (
		sb      strings.Builder
		mapping []Mapping
		kept    []token.Token
		prev    *token.Token
	)
	for i := range tokens {
		tok := &tokens[i]
		if tok.Kind.IsTrivia() || tok.Kind == token.EOF {
			continue
		}

		joined := false
		if prev != nil {
			switch {
			case prev.End.Line != tok.Start.Line:
				if joinSpace(prev.Kind, tok.Kind, opts) {
					sb.WriteByte(' ')
					joined = true
				}
			case prev.End.Col != tok.Start.Col:
				sb.WriteString(gapText(file, prev.Span.End, tok.Span.Start))
			}
		}

		text := tok.Text
		muted := tok.Kind == token.String
		if muted {
			text = MutedString
		}
		start := sb.Len()
		sb.WriteString(text)
		mapping = append(mapping, Mapping{
			Offset:  start,
			TextEnd: sb.Len(),
			Source:  tok.Span.Start,
			SrcEnd:  tok.Span.End,
			Pos:     tok.Start,
			Muted:   muted,
			Joined:  joined,
		})
		kept = append(kept, *tok)
		prev = tok
	}
	if len(kept) == 0 {
		return Line{}, false
	}
	return Line{
		Text:    sb.String(),
		Mapping: mapping,
		Tokens:  kept,
		Span:    kept[0].Span.Cover(kept[len(kept)-1].Span),
	}, true
}

func joinSpace(prev, cur token.Kind, opts Options) bool {
	if !opts.BracketAwareJoin || prev == token.Comma {
		return true
	}
	return !prev.IsOpenBracket() && !cur.IsCloseBracket()
}

// gapText returns the source text between two tokens on the same row.
func gapText(file *source.File, from, to uint32) string {
	if file == nil || from >= to {
		return ""
	}
	return file.Slice(source.Span{File: file.ID, Start: from, End: to})
}
