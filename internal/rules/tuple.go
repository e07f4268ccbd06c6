package rules

import (
	"pyrite/internal/ast"
	"pyrite/internal/checker"
)

// nonEmptyTuple reports a tuple display with at least one element; such a
// test is always truthy.
func nonEmptyTuple(b *ast.Builder, id ast.ExprID) bool {
	tuple, ok := b.Exprs.Tuple(id)
	return ok && len(tuple.Elts) > 0
}

// F634: `if (a, b):` and `elif (a, b):`.
func checkIfTuple(ctx *checker.Context, id ast.StmtID) {
	data, ok := ctx.Builder.Stmts.If(id)
	if !ok || !nonEmptyTuple(ctx.Builder, data.Test) {
		return
	}
	ctx.Report(ctx.Builder.Stmts.Get(id).Span, "If test is a tuple, which is always `True`").Emit()
}

// F631: `assert (cond, "message")`.
func checkAssertTuple(ctx *checker.Context, id ast.StmtID) {
	data, ok := ctx.Builder.Stmts.Assert(id)
	if !ok || !nonEmptyTuple(ctx.Builder, data.Test) {
		return
	}
	ctx.Report(ctx.Builder.Stmts.Get(id).Span, "Assert test is a non-empty tuple, which is always `True`").
		WithNote(ctx.Builder.Exprs.Span(data.Test), "did you mean `assert cond, message`?").
		Emit()
}
