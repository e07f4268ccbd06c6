package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the module, one node per line, used by
// `pyrite parse`.
func Dump(w io.Writer, b *Builder) error {
	d := dumper{b: b, w: w}
	for _, id := range b.Module.Body {
		d.stmt(id, 0)
	}
	return d.err
}

type dumper struct {
	b   *Builder
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) stmt(id StmtID, depth int) {
	st := d.b.Stmts.Get(id)
	if st == nil {
		return
	}
	label := st.Kind.String()
	switch st.Kind {
	case StmtFunctionDef:
		fn, _ := d.b.Stmts.FunctionDef(id)
		label += " " + fn.Name.Name
		if fn.Async {
			label = "Async" + label
		}
	case StmtClassDef:
		cls, _ := d.b.Stmts.ClassDef(id)
		label += " " + cls.Name.Name
	case StmtImport, StmtImportFrom:
		imp, _ := d.b.Stmts.Import(id)
		names := make([]string, 0, len(imp.Names))
		for _, a := range imp.Names {
			names = append(names, a.Name)
		}
		label += " " + strings.Repeat(".", imp.Level) + imp.Module + " [" + strings.Join(names, ", ") + "]"
	case StmtGlobal, StmtNonlocal:
		ns, _ := d.b.Stmts.Names(id)
		names := make([]string, 0, len(ns.Names))
		for _, n := range ns.Names {
			names = append(names, n.Name)
		}
		label += " " + strings.Join(names, ", ")
	case StmtAugAssign:
		as, _ := d.b.Stmts.AugAssign(id)
		label += " " + as.Op.String() + "="
	}
	d.line(depth, "%s @%d..%d", label, st.Span.Start, st.Span.End)

	// nested statements first collect their own expressions via the walker
	v := VisitorFuncs{
		OnStmt: func(child StmtID) bool {
			if child == id {
				return true
			}
			d.stmt(child, depth+1)
			return false
		},
		OnExpr: func(e ExprID) bool {
			d.expr(e, depth+1)
			return false
		},
	}
	w := walker{b: d.b, v: v}
	w.stmt(id)
}

func (d *dumper) expr(id ExprID, depth int) {
	ex := d.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	label := ex.Kind.String()
	switch ex.Kind {
	case ExprName:
		n, _ := d.b.Exprs.Name(id)
		label += " " + n.Name
	case ExprConstant:
		c, _ := d.b.Exprs.Constant(id)
		label += " " + c.Kind.String() + " " + c.Raw
	case ExprAttribute:
		a, _ := d.b.Exprs.Attribute(id)
		label += " ." + a.Attr.Name
	case ExprBinOp:
		b, _ := d.b.Exprs.Binary(id)
		label += " " + b.Op.String()
	case ExprBoolOp:
		b, _ := d.b.Exprs.Bool(id)
		label += " " + b.Op.String()
	case ExprUnaryOp:
		u, _ := d.b.Exprs.Unary(id)
		label += " " + u.Op.String()
	case ExprCompare:
		c, _ := d.b.Exprs.Compare(id)
		ops := make([]string, 0, len(c.Ops))
		for _, op := range c.Ops {
			ops = append(ops, op.String())
		}
		label += " " + strings.Join(ops, " ")
	case ExprTuple:
		if s, _ := d.b.Exprs.Seq(id); s.Parenthesized {
			label += " ()"
		}
	}
	d.line(depth, "%s @%d..%d", label, ex.Span.Start, ex.Span.End)
	for _, c := range ExprChildren(d.b.Exprs, id) {
		d.expr(c, depth+1)
	}
}
