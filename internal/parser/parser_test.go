package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/lexer"
	"pyrite/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, *source.File, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	res := ParseFile(context.Background(), file, tokens, Options{Reporter: reporter, MaxErrors: 100})
	return res.Builder, file, bag
}

func mustParse(t *testing.T, input string) (*ast.Builder, *source.File) {
	t.Helper()
	b, file, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %s", input, diagnosticsSummary(bag))
	}
	return b, file
}

func dump(t *testing.T, b *ast.Builder) string {
	t.Helper()
	var sb strings.Builder
	if err := ast.Dump(&sb, b); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return sb.String()
}

func onlyStmt(t *testing.T, b *ast.Builder) ast.StmtID {
	t.Helper()
	if len(b.Module.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d:\n%s", len(b.Module.Body), dump(t, b))
	}
	return b.Module.Body[0]
}

func TestIfTupleTest(t *testing.T) {
	b, file := mustParse(t, "if (1, 2):\n    pass\n")
	id := onlyStmt(t, b)
	ifs, ok := b.Stmts.If(id)
	if !ok {
		t.Fatalf("expected If, got %s", b.Stmts.Get(id).Kind)
	}
	tuple, ok := b.Exprs.Tuple(ifs.Test)
	if !ok {
		t.Fatalf("expected tuple test, got %s", b.Exprs.Get(ifs.Test).Kind)
	}
	if len(tuple.Elts) != 2 || !tuple.Parenthesized {
		t.Fatalf("unexpected tuple %+v", tuple)
	}
	if got := file.Slice(b.Exprs.Span(ifs.Test)); got != "(1, 2)" {
		t.Fatalf("tuple span = %q", got)
	}
	if got := file.Slice(b.Stmts.Get(id).Span); got != "if (1, 2):\n    pass" {
		t.Fatalf("if span = %q", got)
	}
}

func TestEmptyTuple(t *testing.T) {
	b, _ := mustParse(t, "x = ()\n")
	as, ok := b.Stmts.Assign(onlyStmt(t, b))
	if !ok {
		t.Fatal("expected Assign")
	}
	tuple, ok := b.Exprs.Tuple(as.Value)
	if !ok || len(tuple.Elts) != 0 {
		t.Fatalf("expected empty tuple, got %s", b.Exprs.Get(as.Value).Kind)
	}
}

func TestParenthesizedExprIsNotTuple(t *testing.T) {
	b, file := mustParse(t, "assert (x)\n")
	a, ok := b.Stmts.Assert(onlyStmt(t, b))
	if !ok {
		t.Fatal("expected Assert")
	}
	if k := b.Exprs.Get(a.Test).Kind; k != ast.ExprName {
		t.Fatalf("expected Name, got %s", k)
	}
	if got := file.Slice(b.Exprs.Span(a.Test)); got != "x" {
		t.Fatalf("span = %q", got)
	}
}

func TestAssertWithMessage(t *testing.T) {
	b, _ := mustParse(t, "assert (False, \"message\")\nassert x, \"msg\"\n")
	first, _ := b.Stmts.Assert(b.Module.Body[0])
	if _, ok := b.Exprs.Tuple(first.Test); !ok || first.Msg.IsValid() {
		t.Fatalf("first assert: test kind %s msg %v", b.Exprs.Get(first.Test).Kind, first.Msg)
	}
	second, _ := b.Stmts.Assert(b.Module.Body[1])
	if !second.Msg.IsValid() {
		t.Fatal("second assert lost its message")
	}
}

func TestElifChain(t *testing.T) {
	b, _ := mustParse(t, "if a:\n    pass\nelif (b,):\n    pass\nelse:\n    x = 1\n")
	outer, _ := b.Stmts.If(onlyStmt(t, b))
	if len(outer.Orelse) != 1 {
		t.Fatalf("expected nested elif, got %d", len(outer.Orelse))
	}
	inner, ok := b.Stmts.If(outer.Orelse[0])
	if !ok || !inner.Elif {
		t.Fatal("expected elif If node")
	}
	if len(inner.Orelse) != 1 || b.Stmts.Get(inner.Orelse[0]).Kind != ast.StmtAssign {
		t.Fatal("else body not attached to the elif")
	}
}

func TestDecoratedMethod(t *testing.T) {
	src := `import functools

class C:
    @functools.lru_cache(maxsize=None)
    @staticmethod
    def f(self, a, /, b=1, *args, c, d=[], **kw) -> int:
        return a
`
	b, _ := mustParse(t, src)
	if len(b.Module.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(b.Module.Body))
	}
	cls, ok := b.Stmts.ClassDef(b.Module.Body[1])
	if !ok || cls.Name.Name != "C" {
		t.Fatal("expected class C")
	}
	fn, ok := b.Stmts.FunctionDef(cls.Body[0])
	if !ok {
		t.Fatal("expected method")
	}
	if len(fn.Decorators) != 2 {
		t.Fatalf("decorators = %d", len(fn.Decorators))
	}
	if _, ok := b.Exprs.Call(fn.Decorators[0]); !ok {
		t.Fatal("first decorator should be a call")
	}
	wantKinds := []ast.ParamKind{
		ast.ParamPositionalOnly, ast.ParamPositionalOnly, ast.ParamRegular,
		ast.ParamVarArgs, ast.ParamKeywordOnly, ast.ParamKeywordOnly, ast.ParamKwArgs,
	}
	if len(fn.Params) != len(wantKinds) {
		t.Fatalf("params = %d, want %d", len(fn.Params), len(wantKinds))
	}
	for i, want := range wantKinds {
		if fn.Params[i].Kind != want {
			t.Errorf("param %d (%s) kind = %d, want %d", i, fn.Params[i].Name, fn.Params[i].Kind, want)
		}
	}
	if k := b.Exprs.Get(fn.Params[5].Default).Kind; k != ast.ExprList {
		t.Errorf("d default kind = %s", k)
	}
	if !fn.Returns.IsValid() {
		t.Error("return annotation lost")
	}
}

func TestImports(t *testing.T) {
	b, _ := mustParse(t, "import a.b as c, d\nfrom ..pkg.mod import (x as y, z,)\nfrom . import w\nfrom m import *\n")
	imp, _ := b.Stmts.Import(b.Module.Body[0])
	if len(imp.Names) != 2 || imp.Names[0].Name != "a.b" || imp.Names[0].AsName != "c" {
		t.Fatalf("import = %+v", imp.Names)
	}
	from, _ := b.Stmts.Import(b.Module.Body[1])
	if from.Level != 2 || from.Module != "pkg.mod" || len(from.Names) != 2 || from.Names[0].AsName != "y" {
		t.Fatalf("from import = %+v", from)
	}
	rel, _ := b.Stmts.Import(b.Module.Body[2])
	if rel.Level != 1 || rel.Module != "" || rel.Names[0].Name != "w" {
		t.Fatalf("relative import = %+v", rel)
	}
	star, _ := b.Stmts.Import(b.Module.Body[3])
	if star.Names[0].Name != "*" {
		t.Fatalf("star import = %+v", star)
	}
}

func TestComparisonChain(t *testing.T) {
	b, file := mustParse(t, "x == None != y is not z not in w\n")
	val, _ := b.Stmts.Value(onlyStmt(t, b))
	cmp, ok := b.Exprs.Compare(val.Value)
	if !ok {
		t.Fatal("expected Compare")
	}
	want := []ast.CmpOp{ast.CmpEq, ast.CmpNotEq, ast.CmpIsNot, ast.CmpNotIn}
	if len(cmp.Ops) != len(want) {
		t.Fatalf("ops = %v", cmp.Ops)
	}
	for i := range want {
		if cmp.Ops[i] != want[i] {
			t.Errorf("op %d = %s, want %s", i, cmp.Ops[i], want[i])
		}
	}
	if got := file.Slice(cmp.OpSpans[2]); got != "is not" {
		t.Errorf("op span = %q", got)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	b, _ := mustParse(t, "r = -2 ** 2 + 3 * 4\n")
	as, _ := b.Stmts.Assign(onlyStmt(t, b))
	add, ok := b.Exprs.Binary(as.Value)
	if !ok || add.Op != ast.BinAdd {
		t.Fatalf("top = %s", b.Exprs.Get(as.Value).Kind)
	}
	neg, ok := b.Exprs.Unary(add.Left)
	if !ok || neg.Op != ast.UnaryNeg {
		t.Fatal("left should be a negation")
	}
	if pow, ok := b.Exprs.Binary(neg.Operand); !ok || pow.Op != ast.BinPow {
		t.Fatal("negation should wrap the power")
	}
	if mul, ok := b.Exprs.Binary(add.Right); !ok || mul.Op != ast.BinMul {
		t.Fatal("right should be a product")
	}
}

func TestCompoundStatements(t *testing.T) {
	src := `async def main():
    async with lock as l, other:
        pass
    async for i in aiter():
        await i
    for a, b in pairs:
        continue
    else:
        pass
    while x := next(it):
        break
    try:
        raise ValueError("x") from None
    except* (TypeError, ValueError) as exc:
        del a, b[0]
    except:
        pass
    else:
        pass
    finally:
        global g
`
	b, _ := mustParse(t, src)
	fn, ok := b.Stmts.FunctionDef(onlyStmt(t, b))
	if !ok || !fn.Async {
		t.Fatal("expected async def")
	}
	var kinds []string
	for _, id := range fn.Body {
		kinds = append(kinds, b.Stmts.Get(id).Kind.String())
	}
	if got := strings.Join(kinds, ","); got != "With,For,For,While,Try" {
		t.Fatalf("body kinds = %s", got)
	}
	loop, _ := b.Stmts.For(fn.Body[2])
	if tuple, ok := b.Exprs.Tuple(loop.Target); !ok || len(tuple.Elts) != 2 {
		t.Fatal("for target should be a 2-tuple")
	}
	try, _ := b.Stmts.Try(fn.Body[4])
	if !try.Star || len(try.Handlers) != 2 || try.Handlers[0].Name.Name != "exc" || try.Handlers[1].Type.IsValid() {
		t.Fatalf("try = %+v", try)
	}
}

func TestDisplaysAndComprehensions(t *testing.T) {
	src := "v = [x for x in y if x], {k: v for k, v in d.items()}, {1, *s}, {**a, 'b': 1}, (i async for i in g), f(x for x in y), a[1:2, ::3]\n"
	b, _ := mustParse(t, src)
	as, _ := b.Stmts.Assign(onlyStmt(t, b))
	tuple, ok := b.Exprs.Tuple(as.Value)
	if !ok {
		t.Fatal("expected tuple value")
	}
	want := []ast.ExprKind{
		ast.ExprListComp, ast.ExprDictComp, ast.ExprSet, ast.ExprDict,
		ast.ExprGenerator, ast.ExprCall, ast.ExprSubscript,
	}
	if len(tuple.Elts) != len(want) {
		t.Fatalf("elements = %d", len(tuple.Elts))
	}
	for i, k := range want {
		if got := b.Exprs.Get(tuple.Elts[i]).Kind; got != k {
			t.Errorf("element %d = %s, want %s", i, got, k)
		}
	}
	sub, _ := b.Exprs.Subscript(tuple.Elts[6])
	idx, ok := b.Exprs.Tuple(sub.Index)
	if !ok || len(idx.Elts) != 2 || b.Exprs.Get(idx.Elts[1]).Kind != ast.ExprSlice {
		t.Fatal("subscript should hold a tuple of slices")
	}
}

func TestLambdaAndConditional(t *testing.T) {
	b, _ := mustParse(t, "f = lambda a, b=1, *c, **d: a if b else c\n")
	as, _ := b.Stmts.Assign(onlyStmt(t, b))
	lam, ok := b.Exprs.Lambda(as.Value)
	if !ok || len(lam.Params) != 4 {
		t.Fatal("expected lambda with 4 params")
	}
	if b.Exprs.Get(lam.Body).Kind != ast.ExprIfExp {
		t.Fatal("lambda body should be a conditional")
	}
}

func TestStringConcatenation(t *testing.T) {
	b, _ := mustParse(t, "s = 'a' \"b\"\nbs = b'x' B'y'\n")
	s, _ := b.Stmts.Assign(b.Module.Body[0])
	c, _ := b.Exprs.Constant(s.Value)
	if c.Kind != ast.ConstString || c.Raw != `'a' "b"` {
		t.Fatalf("constant = %+v", c)
	}
	bs, _ := b.Stmts.Assign(b.Module.Body[1])
	if c, _ := b.Exprs.Constant(bs.Value); c.Kind != ast.ConstBytes {
		t.Fatalf("bytes constant kind = %s", c.Kind)
	}
}

func TestAssignmentForms(t *testing.T) {
	b, _ := mustParse(t, "a = b = 1\nx += 2\ny: int = 3\n*h, t = seq\n")
	as, _ := b.Stmts.Assign(b.Module.Body[0])
	if len(as.Targets) != 2 {
		t.Fatalf("chained targets = %d", len(as.Targets))
	}
	aug, ok := b.Stmts.AugAssign(b.Module.Body[1])
	if !ok || aug.Op != ast.BinAdd {
		t.Fatal("expected +=")
	}
	if _, ok := b.Stmts.AnnAssign(b.Module.Body[2]); !ok {
		t.Fatal("expected annotated assignment")
	}
	if _, ok := b.Stmts.Assign(b.Module.Body[3]); !ok {
		t.Fatal("expected starred unpacking")
	}
}

func TestSemicolonsAndComments(t *testing.T) {
	b, _ := mustParse(t, "a = 1; b = 2  # trailing\n# alone\npass\n")
	if len(b.Module.Body) != 3 {
		t.Fatalf("statements = %d", len(b.Module.Body))
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing colon", "if x\n    pass\n", diag.SynExpectColon},
		{"bad target", "f() = 1\n", diag.SynInvalidTarget},
		{"bad aug target", "(a, b) += 1\n", diag.SynInvalidTarget},
		{"missing indent", "def f():\npass\n", diag.SynExpectIndent},
		{"unexpected indent", "  x = 1\n", diag.SynUnexpectedToken},
		{"default order", "def f(a=1, b):\n    pass\n", diag.SynBadParameters},
		{"lone try", "try:\n    pass\nx = 1\n", diag.SynUnexpectedToken},
		{"bad expression", "x = )\n", diag.SynExpectExpression},
		{"trailing junk", "x = 1 2\n", diag.SynExpectNewline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, bag := parseSource(t, tc.src)
			if !bag.HasErrors() {
				t.Fatalf("expected an error for %q", tc.src)
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s, got %s", tc.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestRecoveryContinuesAfterBadStatement(t *testing.T) {
	b, _, bag := parseSource(t, "x = +\ny = 2\n")
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %s", diagnosticsSummary(bag))
	}
	if len(b.Module.Body) != 1 {
		t.Fatalf("expected the second statement to survive, got %d", len(b.Module.Body))
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte("x = +\ny = +\nz = +\n")))
	first := &diag.FirstReporter{}
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: first})
	res := ParseFile(context.Background(), file, tokens, Options{Reporter: first, MaxErrors: 1})
	if res.Errors == 0 {
		t.Fatal("expected errors to be counted")
	}
	d, ok := first.First()
	if !ok || d.Code != diag.SynExpectExpression {
		t.Fatalf("first = %+v", d)
	}
}

func TestSpansNestInParents(t *testing.T) {
	src := "def f(a=[1, 2]):\n    return {k: (v, w) for k in a if k}\n"
	b, _ := mustParse(t, src)
	ast.Walk(b, ast.VisitorFuncs{
		OnExpr: func(id ast.ExprID) bool {
			parent := b.Exprs.Span(id)
			for _, child := range ast.ExprChildren(b.Exprs, id) {
				if !parent.Contains(b.Exprs.Span(child)) {
					t.Errorf("%s %v does not contain %s %v", b.Exprs.Get(id).Kind, parent, b.Exprs.Get(child).Kind, b.Exprs.Span(child))
				}
			}
			return true
		},
	})
}
