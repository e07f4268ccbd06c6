package ast

import (
	"pyrite/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

// Builder owns every node of one parsed module. It is written by the parser
// and only read afterwards.
type Builder struct {
	Stmts  *Stmts
	Exprs  *Exprs
	Module Module
}

// Module is the root: the top-level statements of a file.
type Module struct {
	Span source.Span
	Body []StmtID
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}
