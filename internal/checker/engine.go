package checker

import (
	"context"
	"fmt"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/symbols"
	"pyrite/internal/trace"
)

// Engine is the immutable dispatch table built from a rule list. It is safe
// to share between goroutines; all walk state lives in Check.
type Engine struct {
	rules      []Rule
	stmt       []int
	expr       []int
	decorators []int
}

// New builds the per-hook dispatch tables, keeping registration order.
func New(rules []Rule) *Engine {
	e := &Engine{rules: append([]Rule(nil), rules...)}
	for i := range e.rules {
		r := &e.rules[i]
		if r.Stmt != nil {
			e.stmt = append(e.stmt, i)
		}
		if r.Expr != nil {
			e.expr = append(e.expr, i)
		}
		if r.Decorators != nil {
			e.decorators = append(e.decorators, i)
		}
	}
	return e
}

// Rules returns the registered rules in order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Check walks the module once and returns its diagnostics: each rule's
// findings in pre-order, rules in registration order.
func (e *Engine) Check(ctx context.Context, b *ast.Builder, file *source.File) *diag.Bag {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "check", trace.CurrentSpan(ctx))

	w := &walk{
		e:        e,
		b:        b,
		resolver: symbols.NewResolver(nil),
		contexts: make([]Context, len(e.rules)),
	}
	for i := range e.rules {
		w.contexts[i] = Context{
			Builder:  b,
			File:     file,
			rule:     &e.rules[i],
			resolver: w.resolver,
			bucket:   diag.NewBag(0),
		}
	}

	module := w.resolver.Enter(symbols.ScopeModule, b.Module.Span)
	w.body(b.Module.Body)
	w.resolver.Leave(module)

	out := diag.NewBag(0)
	for i := range w.contexts {
		bucket := w.contexts[i].bucket
		if bucket.Len() > 0 {
			trace.Point(tracer, trace.ScopeRule, e.rules[i].Name, fmt.Sprintf("%d diagnostics", bucket.Len()))
		}
		out.Merge(bucket)
	}
	span.End(fmt.Sprintf("%d diagnostics", out.Len()))
	return out
}

type walk struct {
	e        *Engine
	b        *ast.Builder
	resolver *symbols.Resolver
	contexts []Context
}

func (w *walk) body(stmts []ast.StmtID) {
	for _, id := range stmts {
		w.stmt(id)
	}
}

func (w *walk) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walk) stmt(id ast.StmtID) {
	st := w.b.Stmts.Get(id)
	if st == nil {
		return
	}
	for _, i := range w.e.stmt {
		w.e.rules[i].Stmt(&w.contexts[i], id)
	}

	stmts := w.b.Stmts
	switch st.Kind {
	case ast.StmtFunctionDef:
		fn, _ := stmts.FunctionDef(id)
		w.decorators(id, fn.Decorators)
		w.paramExprs(fn.Params, true)
		w.expr(fn.Returns)
		w.resolver.Bind(fn.Name.Name, symbols.BindingDefinition, fn.Name.Span, nil)
		scope := w.resolver.Enter(symbols.ScopeFunction, st.Span)
		w.bindParams(fn.Params)
		w.body(fn.Body)
		w.resolver.Leave(scope)

	case ast.StmtClassDef:
		cls, _ := stmts.ClassDef(id)
		w.decorators(id, cls.Decorators)
		w.exprs(cls.Bases)
		for _, kw := range cls.Keywords {
			w.expr(kw.Value)
		}
		w.resolver.Bind(cls.Name.Name, symbols.BindingDefinition, cls.Name.Span, nil)
		scope := w.resolver.Enter(symbols.ScopeClass, st.Span)
		w.body(cls.Body)
		w.resolver.Leave(scope)

	case ast.StmtImport, ast.StmtImportFrom:
		imp, _ := stmts.Import(id)
		w.resolver.BindImport(st.Kind, imp)

	case ast.StmtGlobal, ast.StmtNonlocal:
		names, _ := stmts.Names(id)
		for _, n := range names.Names {
			if st.Kind == ast.StmtGlobal {
				w.resolver.DeclareGlobal(n.Name)
			} else {
				w.resolver.DeclareNonlocal(n.Name)
			}
		}

	case ast.StmtAssign:
		as, _ := stmts.Assign(id)
		w.exprs(as.Targets)
		w.expr(as.Value)
		for _, t := range as.Targets {
			w.bindTarget(t)
		}

	case ast.StmtAugAssign:
		as, _ := stmts.AugAssign(id)
		w.expr(as.Target)
		w.expr(as.Value)
		w.bindTarget(as.Target)

	case ast.StmtAnnAssign:
		as, _ := stmts.AnnAssign(id)
		w.expr(as.Target)
		w.expr(as.Annotation)
		w.expr(as.Value)
		if as.Value.IsValid() {
			w.bindTarget(as.Target)
		}

	case ast.StmtFor:
		loop, _ := stmts.For(id)
		w.expr(loop.Target)
		w.expr(loop.Iter)
		w.bindTarget(loop.Target)
		w.body(loop.Body)
		w.body(loop.Orelse)

	case ast.StmtWith:
		with, _ := stmts.With(id)
		for _, item := range with.Items {
			w.expr(item.Context)
			w.expr(item.Vars)
			w.bindTarget(item.Vars)
		}
		w.body(with.Body)

	case ast.StmtTry:
		t, _ := stmts.Try(id)
		w.body(t.Body)
		for _, h := range t.Handlers {
			w.expr(h.Type)
			if h.Name.Name != "" {
				w.resolver.Bind(h.Name.Name, symbols.BindingAssignment, h.Name.Span, nil)
			}
			w.body(h.Body)
		}
		w.body(t.Orelse)
		w.body(t.Finally)

	default:
		// the remaining statements only hold expressions and plain bodies
		ast.WalkStmt(w.b, id, shallow{w: w, root: id})
	}
}

// shallow adapts the generic walker for statements that need no scope
// handling: it forwards the statement's direct expressions and nested
// statements back into the checker walk.
type shallow struct {
	w    *walk
	root ast.StmtID
}

func (s shallow) Stmt(id ast.StmtID) bool {
	if id == s.root {
		return true
	}
	s.w.stmt(id)
	return false
}

func (s shallow) Expr(id ast.ExprID) bool {
	s.w.expr(id)
	return false
}

// decorators dispatches the decorator hook while the enclosing scope is
// still current, then walks the decorator expressions.
func (w *walk) decorators(owner ast.StmtID, decorators []ast.ExprID) {
	if len(decorators) == 0 {
		return
	}
	for _, i := range w.e.decorators {
		w.e.rules[i].Decorators(&w.contexts[i], owner, decorators)
	}
	w.exprs(decorators)
}

// paramExprs walks annotations and defaults, which evaluate in the
// enclosing scope.
func (w *walk) paramExprs(params []ast.Param, annotations bool) {
	for i := range params {
		if annotations {
			w.expr(params[i].Annotation)
		}
		w.expr(params[i].Default)
	}
}

func (w *walk) bindParams(params []ast.Param) {
	for i := range params {
		w.resolver.Bind(params[i].Name, symbols.BindingParameter, params[i].Span, nil)
	}
}

// bindTarget binds every plain name inside an assignment target.
func (w *walk) bindTarget(id ast.ExprID) {
	ex := w.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprName:
		n, _ := w.b.Exprs.Name(id)
		w.resolver.Bind(n.Name, symbols.BindingAssignment, ex.Span, nil)
	case ast.ExprStarred:
		v, _ := w.b.Exprs.Value(id)
		w.bindTarget(v.Value)
	case ast.ExprTuple, ast.ExprList:
		seq, _ := w.b.Exprs.Seq(id)
		for _, elt := range seq.Elts {
			w.bindTarget(elt)
		}
	}
}

func (w *walk) expr(id ast.ExprID) {
	ex := w.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	for _, i := range w.e.expr {
		w.e.rules[i].Expr(&w.contexts[i], id)
	}

	switch ex.Kind {
	case ast.ExprLambda:
		lam, _ := w.b.Exprs.Lambda(id)
		w.paramExprs(lam.Params, false)
		scope := w.resolver.Enter(symbols.ScopeFunction, ex.Span)
		w.bindParams(lam.Params)
		w.expr(lam.Body)
		w.resolver.Leave(scope)

	case ast.ExprNamed:
		n, _ := w.b.Exprs.Named(id)
		w.expr(n.Target)
		w.expr(n.Value)
		w.bindTarget(n.Target)

	case ast.ExprListComp, ast.ExprSetComp, ast.ExprGenerator, ast.ExprDictComp:
		// comprehensions get no scope of their own; their targets bind in
		// the enclosing one
		comp, _ := w.b.Exprs.Comp(id)
		w.expr(comp.Elt)
		w.expr(comp.Value)
		for _, g := range comp.Generators {
			w.expr(g.Target)
			w.expr(g.Iter)
			w.bindTarget(g.Target)
			w.exprs(g.Ifs)
		}

	default:
		w.exprs(ast.ExprChildren(w.b.Exprs, id))
	}
}
