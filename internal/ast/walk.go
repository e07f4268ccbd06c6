package ast

// Visitor receives nodes in pre-order. Returning false skips the node's
// children.
type Visitor interface {
	Stmt(id StmtID) bool
	Expr(id ExprID) bool
}

// VisitorFuncs adapts plain functions to Visitor; nil hooks descend.
type VisitorFuncs struct {
	OnStmt func(StmtID) bool
	OnExpr func(ExprID) bool
}

func (v VisitorFuncs) Stmt(id StmtID) bool {
	if v.OnStmt == nil {
		return true
	}
	return v.OnStmt(id)
}

func (v VisitorFuncs) Expr(id ExprID) bool {
	if v.OnExpr == nil {
		return true
	}
	return v.OnExpr(id)
}

// Walk visits the whole module in source order.
func Walk(b *Builder, v Visitor) {
	w := walker{b: b, v: v}
	w.body(b.Module.Body)
}

// WalkStmt visits one statement tree.
func WalkStmt(b *Builder, id StmtID, v Visitor) {
	w := walker{b: b, v: v}
	w.stmt(id)
}

type walker struct {
	b *Builder
	v Visitor
}

func (w *walker) body(stmts []StmtID) {
	for _, id := range stmts {
		w.stmt(id)
	}
}

func (w *walker) exprs(ids []ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) params(params []Param) {
	for i := range params {
		w.expr(params[i].Annotation)
		w.expr(params[i].Default)
	}
}

func (w *walker) stmt(id StmtID) {
	if !id.IsValid() || !w.v.Stmt(id) {
		return
	}
	stmts := w.b.Stmts
	st := stmts.Get(id)
	switch st.Kind {
	case StmtFunctionDef:
		fn, _ := stmts.FunctionDef(id)
		w.exprs(fn.Decorators)
		w.params(fn.Params)
		w.expr(fn.Returns)
		w.body(fn.Body)
	case StmtClassDef:
		cls, _ := stmts.ClassDef(id)
		w.exprs(cls.Decorators)
		w.exprs(cls.Bases)
		for _, kw := range cls.Keywords {
			w.expr(kw.Value)
		}
		w.body(cls.Body)
	case StmtReturn, StmtExpr:
		val, _ := stmts.Value(id)
		w.expr(val.Value)
	case StmtDelete:
		del, _ := stmts.Delete(id)
		w.exprs(del.Targets)
	case StmtAssign:
		as, _ := stmts.Assign(id)
		w.exprs(as.Targets)
		w.expr(as.Value)
	case StmtAugAssign:
		as, _ := stmts.AugAssign(id)
		w.expr(as.Target)
		w.expr(as.Value)
	case StmtAnnAssign:
		as, _ := stmts.AnnAssign(id)
		w.expr(as.Target)
		w.expr(as.Annotation)
		w.expr(as.Value)
	case StmtFor:
		loop, _ := stmts.For(id)
		w.expr(loop.Target)
		w.expr(loop.Iter)
		w.body(loop.Body)
		w.body(loop.Orelse)
	case StmtWhile:
		loop, _ := stmts.While(id)
		w.expr(loop.Test)
		w.body(loop.Body)
		w.body(loop.Orelse)
	case StmtIf:
		cond, _ := stmts.If(id)
		w.expr(cond.Test)
		w.body(cond.Body)
		w.body(cond.Orelse)
	case StmtWith:
		with, _ := stmts.With(id)
		for _, item := range with.Items {
			w.expr(item.Context)
			w.expr(item.Vars)
		}
		w.body(with.Body)
	case StmtRaise:
		r, _ := stmts.Raise(id)
		w.expr(r.Exc)
		w.expr(r.Cause)
	case StmtTry:
		t, _ := stmts.Try(id)
		w.body(t.Body)
		for _, h := range t.Handlers {
			w.expr(h.Type)
			w.body(h.Body)
		}
		w.body(t.Orelse)
		w.body(t.Finally)
	case StmtAssert:
		a, _ := stmts.Assert(id)
		w.expr(a.Test)
		w.expr(a.Msg)
	}
}

func (w *walker) expr(id ExprID) {
	if !id.IsValid() || !w.v.Expr(id) {
		return
	}
	w.exprs(ExprChildren(w.b.Exprs, id))
}

// ExprChildren lists the direct sub-expressions of id in source order.
func ExprChildren(e *Exprs, id ExprID) []ExprID {
	ex := e.Get(id)
	if ex == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch ex.Kind {
	case ExprAttribute:
		a, _ := e.Attribute(id)
		add(a.Value)
	case ExprCall:
		c, _ := e.Call(id)
		add(c.Func)
		add(c.Args...)
		for _, kw := range c.Keywords {
			add(kw.Value)
		}
	case ExprSubscript:
		s, _ := e.Subscript(id)
		add(s.Value, s.Index)
	case ExprSlice:
		s, _ := e.Slice(id)
		add(s.Lower, s.Upper, s.Step)
	case ExprStarred, ExprAwait, ExprYield, ExprYieldFrom:
		v, _ := e.Value(id)
		add(v.Value)
	case ExprBinOp:
		b, _ := e.Binary(id)
		add(b.Left, b.Right)
	case ExprBoolOp:
		b, _ := e.Bool(id)
		add(b.Values...)
	case ExprUnaryOp:
		u, _ := e.Unary(id)
		add(u.Operand)
	case ExprCompare:
		c, _ := e.Compare(id)
		add(c.Left)
		add(c.Comparators...)
	case ExprNamed:
		n, _ := e.Named(id)
		add(n.Target, n.Value)
	case ExprIfExp:
		// source order is `body if test else orelse`
		f, _ := e.IfExp(id)
		add(f.Body, f.Test, f.Orelse)
	case ExprLambda:
		l, _ := e.Lambda(id)
		for i := range l.Params {
			add(l.Params[i].Default)
		}
		add(l.Body)
	case ExprTuple, ExprList, ExprSet:
		s, _ := e.Seq(id)
		add(s.Elts...)
	case ExprDict:
		d, _ := e.Dict(id)
		for i := range d.Values {
			add(d.Keys[i], d.Values[i])
		}
	case ExprListComp, ExprSetComp, ExprGenerator, ExprDictComp:
		c, _ := e.Comp(id)
		add(c.Elt, c.Value)
		for _, g := range c.Generators {
			add(g.Target, g.Iter)
			add(g.Ifs...)
		}
	}
	return out
}
