package rules

import (
	"pyrite/internal/ast"
	"pyrite/internal/checker"
)

// B006: a list, dict or set display (or comprehension) as a parameter
// default is shared between calls.
func checkMutableArgumentDefault(ctx *checker.Context, id ast.StmtID) {
	fn, ok := ctx.Builder.Stmts.FunctionDef(id)
	if !ok {
		return
	}
	for i := range fn.Params {
		def := fn.Params[i].Default
		if !isMutableDisplay(ctx.Builder, def) {
			continue
		}
		ctx.Report(ctx.Builder.Exprs.Span(def), "Do not use mutable data structures for argument defaults").
			WithNote(fn.Params[i].Span, "replace with None and initialise inside the function").
			Emit()
	}
}

func isMutableDisplay(b *ast.Builder, id ast.ExprID) bool {
	ex := b.Exprs.Get(id)
	if ex == nil {
		return false
	}
	switch ex.Kind {
	case ast.ExprList, ast.ExprDict, ast.ExprSet, ast.ExprListComp, ast.ExprDictComp, ast.ExprSetComp:
		return true
	}
	return false
}
