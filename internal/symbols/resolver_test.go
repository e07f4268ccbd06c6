package symbols

import (
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestParseCallPath(t *testing.T) {
	cases := map[string]CallPath{
		"":            nil,
		"a":           {"a"},
		"a.b.c":       {"a", "b", "c"},
		".":           {"."},
		"..pkg.mod":   {"..", "pkg", "mod"},
		"functools.x": {"functools", "x"},
	}
	for in, want := range cases {
		got := ParseCallPath(in)
		if !got.Is(want...) {
			t.Errorf("ParseCallPath(%q) = %v, want %v", in, got, want)
		}
		if in != "" && got.String() != in {
			t.Errorf("String() = %q, want %q", got.String(), in)
		}
	}
}

func TestImportBindings(t *testing.T) {
	r := NewResolver(nil)
	r.Enter(ScopeModule, span(0, 100))
	r.BindImport(ast.StmtImport, &ast.ImportData{Names: []ast.Alias{
		{Name: "a.b"},
		{Name: "x.y", AsName: "c"},
	}})
	r.BindImport(ast.StmtImportFrom, &ast.ImportData{Module: "m.n", Names: []ast.Alias{
		{Name: "f", AsName: "g"},
		{Name: "*"},
	}})
	r.BindImport(ast.StmtImportFrom, &ast.ImportData{Level: 1, Names: []ast.Alias{{Name: "rel"}}})

	want := map[string]CallPath{
		"a":   {"a"},
		"c":   {"x", "y"},
		"g":   {"m", "n", "f"},
		"rel": {".", "rel"},
	}
	for name, path := range want {
		b, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("%s not bound", name)
		}
		if !b.Path.Is(path...) {
			t.Errorf("%s path = %v, want %v", name, b.Path, path)
		}
	}
	if _, ok := r.Lookup("*"); ok {
		t.Error("star import must not bind")
	}
	if _, ok := r.Lookup("f"); ok {
		t.Error("aliased name must not bind the original")
	}
}

func TestClassScopeSkippedFromNestedFunction(t *testing.T) {
	r := NewResolver(nil)
	r.Enter(ScopeModule, span(0, 100))
	r.Bind("x", BindingImport, span(0, 1), CallPath{"mod", "x"})
	cls := r.Enter(ScopeClass, span(10, 90))
	r.Bind("x", BindingAssignment, span(20, 21), nil)

	if b, _ := r.Lookup("x"); b.Kind != BindingAssignment {
		t.Fatal("class body must see its own binding")
	}
	fn := r.Enter(ScopeFunction, span(30, 80))
	if r.CurrentKind() != ScopeFunction {
		t.Fatalf("current kind = %s", r.CurrentKind())
	}
	b, ok := r.Lookup("x")
	if !ok || b.Kind != BindingImport {
		t.Fatalf("method must skip the class scope, got %+v", b)
	}
	r.Leave(fn)
	r.Leave(cls)
	if r.CurrentKind() != ScopeModule {
		t.Fatal("expected to be back in the module scope")
	}
}

func TestLatestBindingWins(t *testing.T) {
	r := NewResolver(nil)
	r.Enter(ScopeModule, span(0, 10))
	r.Bind("functools", BindingImport, span(0, 1), CallPath{"functools"})
	r.Bind("functools", BindingAssignment, span(2, 3), nil)
	b, _ := r.Lookup("functools")
	if b.Qualified() {
		t.Fatal("reassignment must shadow the import")
	}
}

func TestGlobalAndNonlocalRedirect(t *testing.T) {
	r := NewResolver(nil)
	mod := r.Enter(ScopeModule, span(0, 100))
	outer := r.Enter(ScopeFunction, span(1, 99))
	r.Bind("n", BindingAssignment, span(2, 3), nil)
	inner := r.Enter(ScopeFunction, span(4, 98))
	r.DeclareGlobal("g")
	r.DeclareNonlocal("n")
	r.Bind("g", BindingImport, span(5, 6), CallPath{"pkg", "g"})
	r.Bind("n", BindingImport, span(7, 8), CallPath{"pkg", "n"})

	if got := r.Table.Scopes.Get(inner).Bindings; len(got) != 0 {
		t.Fatalf("inner scope must not own redirected bindings, got %d", len(got))
	}
	if len(r.Table.Scopes.Get(mod).NameIndex["g"]) != 1 {
		t.Fatal("global binding must land in the module scope")
	}
	if len(r.Table.Scopes.Get(outer).NameIndex["n"]) != 2 {
		t.Fatal("nonlocal binding must land in the enclosing function")
	}
	if b, ok := r.Lookup("n"); !ok || !b.Path.Is("pkg", "n") {
		t.Fatalf("nonlocal lookup = %+v", b)
	}
	if b, ok := r.Lookup("g"); !ok || !b.Path.Is("pkg", "g") {
		t.Fatalf("global lookup = %+v", b)
	}
}

func TestResolveCallPath(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	root := b.Exprs.NewName(span(0, 2), "ft")
	attr := b.Exprs.NewAttribute(span(0, 12), root, ast.Ident{Name: "lru_cache"})
	unbound := b.Exprs.NewName(span(20, 21), "q")
	call := b.Exprs.NewCall(span(0, 14), ast.CallData{Func: attr})

	r := NewResolver(nil)
	r.Enter(ScopeModule, span(0, 30))
	r.BindImport(ast.StmtImport, &ast.ImportData{Names: []ast.Alias{{Name: "functools", AsName: "ft"}}})

	path, ok := r.ResolveCallPath(b, attr)
	if !ok || !path.Is("functools", "lru_cache") {
		t.Fatalf("attribute chain resolved to %v, %v", path, ok)
	}
	if _, ok := r.ResolveCallPath(b, unbound); ok {
		t.Fatal("unbound name must not resolve")
	}
	if _, ok := r.ResolveCallPath(b, call); ok {
		t.Fatal("a call is not a call path")
	}

	r.Bind("ft", BindingParameter, span(25, 27), nil)
	if _, ok := r.ResolveCallPath(b, attr); ok {
		t.Fatal("a parameter binding has no qualified path")
	}
}

func TestLeaveOutOfOrderPanics(t *testing.T) {
	r := NewResolver(nil)
	mod := r.Enter(ScopeModule, span(0, 1))
	r.Enter(ScopeFunction, span(0, 1))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	r.Leave(mod)
}
