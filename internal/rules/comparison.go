package rules

import (
	"fmt"

	"pyrite/internal/ast"
	"pyrite/internal/checker"
	"pyrite/internal/diag"
)

// E711 / E712 share the scan over comparison chains: every `==` / `!=` link
// whose either side is the singleton is reported, with a fix replacing the
// operator by `is` / `is not`.
func checkNoneComparison(ctx *checker.Context, id ast.ExprID) {
	checkSingletonComparison(ctx, id, func(k ast.ConstKind) bool { return k == ast.ConstNone })
}

func checkTrueFalseComparison(ctx *checker.Context, id ast.ExprID) {
	checkSingletonComparison(ctx, id, func(k ast.ConstKind) bool { return k == ast.ConstTrue || k == ast.ConstFalse })
}

func checkSingletonComparison(ctx *checker.Context, id ast.ExprID, match func(ast.ConstKind) bool) {
	cmp, ok := ctx.Builder.Exprs.Compare(id)
	if !ok {
		return
	}
	left := cmp.Left
	for i, op := range cmp.Ops {
		right := cmp.Comparators[i]
		if op != ast.CmpEq && op != ast.CmpNotEq {
			left = right
			continue
		}
		singleton, ok := singletonSide(ctx.Builder, left, right, match)
		if !ok {
			left = right
			continue
		}
		replacement := ast.CmpIs
		if op == ast.CmpNotEq {
			replacement = ast.CmpIsNot
		}
		opSpan := cmp.OpSpans[i]
		msg := fmt.Sprintf("Comparison to `%s` should be `cond %s %s`", singleton.Raw, replacement, singleton.Raw)
		ctx.Report(ctx.Builder.Exprs.Span(id), msg).
			WithFix(fmt.Sprintf("Replace `%s` with `%s`", op, replacement), diag.FixAlwaysSafe, diag.TextEdit{
				Span:    opSpan,
				NewText: replacement.String(),
				OldText: ctx.Text(opSpan),
			}).
			Emit()
		left = right
	}
}

// singletonSide returns the constant on either side of a comparison link
// that satisfies match, preferring the right.
func singletonSide(b *ast.Builder, left, right ast.ExprID, match func(ast.ConstKind) bool) (*ast.ConstantData, bool) {
	if c, ok := b.Exprs.Constant(right); ok && match(c.Kind) {
		return c, true
	}
	if c, ok := b.Exprs.Constant(left); ok && match(c.Kind) {
		return c, true
	}
	return nil, false
}
