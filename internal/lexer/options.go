package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// Options configure a Lexer.
type Options struct {
	// Reporter receives lexical errors. May be nil: errors are then dropped,
	// lexing continues either way.
	Reporter diag.Reporter
	// TabSize is the column a tab advances to a multiple of when measuring
	// indentation. Zero means 8.
	TabSize uint32
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
