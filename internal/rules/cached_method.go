package rules

import (
	"pyrite/internal/ast"
	"pyrite/internal/checker"
	"pyrite/internal/symbols"
)

var cacheDecorators = []symbols.CallPath{
	{"functools", "lru_cache"},
	{"functools", "cache"},
}

// B019: functools.lru_cache / functools.cache on a method keeps every
// instance alive for the lifetime of the cache.
func checkCachedInstanceMethod(ctx *checker.Context, owner ast.StmtID, decorators []ast.ExprID) {
	if _, ok := ctx.Builder.Stmts.FunctionDef(owner); !ok {
		return
	}
	if ctx.CurrentScopeKind() != symbols.ScopeClass {
		return
	}
	// only bare names count; `@builtins.staticmethod` does not exempt
	for _, d := range decorators {
		if name, ok := ctx.Builder.Exprs.Name(d); ok && (name.Name == "classmethod" || name.Name == "staticmethod") {
			return
		}
	}
	for _, d := range decorators {
		target := d
		if call, ok := ctx.Builder.Exprs.Call(d); ok {
			target = call.Func
		}
		path, ok := ctx.ResolveCallPath(target)
		if !ok || !path.MatchesAny(cacheDecorators...) {
			continue
		}
		ctx.Report(ctx.Builder.Exprs.Span(d),
			"Use of `functools.lru_cache` or `functools.cache` on methods can lead to memory leaks").
			Emit()
	}
}
