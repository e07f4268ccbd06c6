package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// module:
// 1) the module span covers the whole file
// 2) every statement span is non-empty and lies inside the module span
// 3) every node inside a statement lies inside that statement's span
// 4) every expression child lies inside its parent expression
func CheckSpanInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return errors.New("nil builder or file")
	}
	mod := b.Module.Span
	if mod.File != sf.ID {
		return fmt.Errorf("module span points to different file id: got=%d want=%d", mod.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if mod.Start != 0 || mod.End != lenContent {
		return fmt.Errorf("module span %v does not cover the file (0..%d)", mod, lenContent)
	}

	var errs []error
	ast.Walk(b, ast.VisitorFuncs{
		OnStmt: func(id ast.StmtID) bool {
			st := b.Stmts.Get(id)
			if st.Span.Empty() {
				errs = append(errs, fmt.Errorf("%s has an empty span", st.Kind))
			}
			if !mod.Contains(st.Span) {
				errs = append(errs, fmt.Errorf("%s %v escapes the module %v", st.Kind, st.Span, mod))
			}
			errs = append(errs, nestedInStmt(b, id)...)
			return true
		},
		OnExpr: func(id ast.ExprID) bool {
			parent := b.Exprs.Span(id)
			for _, child := range ast.ExprChildren(b.Exprs, id) {
				if !parent.Contains(b.Exprs.Span(child)) {
					errs = append(errs, fmt.Errorf("%s %v does not contain %s %v",
						b.Exprs.Get(id).Kind, parent, b.Exprs.Get(child).Kind, b.Exprs.Span(child)))
				}
			}
			return true
		},
	})
	return errors.Join(errs...)
}

// nestedInStmt checks the direct contents of one statement; deeper
// statements are checked when Walk reaches them.
func nestedInStmt(b *ast.Builder, id ast.StmtID) []error {
	outer := b.Stmts.Get(id).Span
	var errs []error
	ast.WalkStmt(b, id, ast.VisitorFuncs{
		OnStmt: func(inner ast.StmtID) bool {
			if inner == id {
				return true
			}
			sp := b.Stmts.Get(inner).Span
			if !outer.Contains(sp) {
				errs = append(errs, fmt.Errorf("%s %v escapes %s %v", b.Stmts.Get(inner).Kind, sp, b.Stmts.Get(id).Kind, outer))
			}
			return false
		},
		OnExpr: func(expr ast.ExprID) bool {
			sp := b.Exprs.Span(expr)
			if !outer.Contains(sp) {
				errs = append(errs, fmt.Errorf("%s %v escapes %s %v", b.Exprs.Get(expr).Kind, sp, b.Stmts.Get(id).Kind, outer))
			}
			return false
		},
	})
	return errs
}
