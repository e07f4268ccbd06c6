package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// measureIndent runs at the start of every physical line outside brackets.
// Blank and comment-only lines leave the indentation stack alone.
func (lx *Lexer) measureIndent() {
	start := lx.cursor.Mark()
	var col uint32
	for {
		switch lx.cursor.Peek() {
		case ' ':
			col++
		case '\t':
			col = (col/lx.opts.TabSize + 1) * lx.opts.TabSize
		case '\f':
			col = 0
		default:
			goto measured
		}
		lx.cursor.Bump()
	}
measured:
	if lx.cursor.EOF() {
		return
	}
	switch lx.cursor.Peek() {
	case '\n', '#':
		return
	case '\\':
		// a continuation right at the indentation is not a statement start
		if lx.cursor.PeekAt(1) == '\n' {
			return
		}
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.queue = append(lx.queue, lx.make(token.Indent, start))
	case col < top:
		at := lx.cursor.Off
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.queue = append(lx.queue, lx.makeAt(token.Dedent, at, at))
		}
		if col != lx.indents[len(lx.indents)-1] {
			lx.report(diag.LexInconsistentDedent, lx.cursor.SpanFrom(start),
				"unindent does not match any outer indentation level")
		}
	}
}
