package logical_test

import (
	"strings"
	"testing"

	"pyrite/internal/lexer"
	"pyrite/internal/logical"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

func build(t *testing.T, src string, opts logical.Options) (*source.File, []logical.Line) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.py", []byte(src)))
	tokens := lexer.Tokenize(file, lexer.Options{})
	return file, logical.Build(file, tokens, opts)
}

func texts(lines []logical.Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	if lines := logical.Build(nil, nil, logical.Options{}); len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", texts(lines))
	}
	_, lines := build(t, "", logical.Options{})
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", texts(lines))
	}
}

func TestOneLinePerStatement(t *testing.T) {
	_, lines := build(t, "a = 1\nb = 2\n", logical.Options{})
	got := texts(lines)
	if len(got) != 2 || got[0] != "a = 1" || got[1] != "b = 2" {
		t.Fatalf("got %q", got)
	}
}

func TestBracketsJoinRows(t *testing.T) {
	_, lines := build(t, "foo(a,\n    b)\n", logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "foo(a, b)" {
		t.Fatalf("got %q", got)
	}
}

func TestJoinSpaceAlwaysInsertedByDefault(t *testing.T) {
	src := "x = [\n    1,\n    2\n]\n"
	_, lines := build(t, src, logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "x = [ 1, 2 ]" {
		t.Fatalf("got %q", got)
	}
}

func TestBracketAwareJoin(t *testing.T) {
	src := "x = [\n    1,\n    2\n]\n"
	_, lines := build(t, src, logical.Options{BracketAwareJoin: true})
	if got := texts(lines); len(got) != 1 || got[0] != "x = [1, 2]" {
		t.Fatalf("got %q", got)
	}
}

func TestSameRowGapCopiedExactly(t *testing.T) {
	_, lines := build(t, "a  =\t4 +  5\n", logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "a  =\t4 +  5" {
		t.Fatalf("got %q", got)
	}
}

func TestStringsMuted(t *testing.T) {
	_, lines := build(t, "x = 'a  +  b' + \"\"\"doc\nstring\"\"\"\n", logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != `x = "" + ""` {
		t.Fatalf("got %q", got)
	}
}

func TestCommentsAndIndentationDropped(t *testing.T) {
	src := "# header\nif x:  # trailing\n    y = 1\n"
	_, lines := build(t, src, logical.Options{})
	got := texts(lines)
	if len(got) != 2 || got[0] != "if x:" || got[1] != "y = 1" {
		t.Fatalf("got %q", got)
	}
}

func TestBackslashContinuationJoins(t *testing.T) {
	_, lines := build(t, "x = 1 + \\\n    2\n", logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "x = 1 + 2" {
		t.Fatalf("got %q", got)
	}
}

func TestUnterminatedBracketDropped(t *testing.T) {
	_, lines := build(t, "a = 1\nfoo(a,\n", logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "a = 1" {
		t.Fatalf("got %q", got)
	}
}

func TestDepthCounterIgnoresKinds(t *testing.T) {
	// mismatched bracket kinds still balance the counter
	toks := []token.Token{
		{Kind: token.LParen, Text: "(", Start: source.LineCol{Line: 1, Col: 1}, End: source.LineCol{Line: 1, Col: 2}, Span: source.Span{Start: 0, End: 1}},
		{Kind: token.RBracket, Text: "]", Start: source.LineCol{Line: 1, Col: 2}, End: source.LineCol{Line: 1, Col: 3}, Span: source.Span{Start: 1, End: 2}},
		{Kind: token.Newline, Text: "\n", Start: source.LineCol{Line: 1, Col: 3}, End: source.LineCol{Line: 2, Col: 1}, Span: source.Span{Start: 2, End: 3}},
	}
	lines := logical.Build(nil, toks, logical.Options{})
	if got := texts(lines); len(got) != 1 || got[0] != "(]" {
		t.Fatalf("got %q", got)
	}
}

func TestConcatenationReproducesTokens(t *testing.T) {
	src := "def f(a,\n      b=[1,\n         2]):\n    return {'k': a,\n            'v': b}\nz = f(1) ; w = 2\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.py", []byte(src)))
	tokens := lexer.Tokenize(file, lexer.Options{})
	lines := logical.Build(file, tokens, logical.Options{})

	var want strings.Builder
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		if tok.Kind == token.String {
			want.WriteString(logical.MutedString)
			continue
		}
		want.WriteString(tok.Text)
	}

	var got strings.Builder
	for _, l := range lines {
		for _, m := range l.Mapping {
			got.WriteString(l.Text[m.Offset:m.TextEnd])
		}
	}
	if got.String() != want.String() {
		t.Fatalf("concatenation mismatch\nwant %q\ngot  %q", want.String(), got.String())
	}
}

func TestSourceOffsetMapping(t *testing.T) {
	file, lines := build(t, "foo(a,\n    bb)\n", logical.Options{})
	l := lines[0] // "foo(a, bb)"
	idx := strings.Index(l.Text, "bb")
	off := l.SourceOffset(idx + 1)
	if pos := file.Position(off); pos != (source.LineCol{Line: 2, Col: 6}) {
		t.Fatalf("bb+1 mapped to %+v", pos)
	}
	// the join space maps to the next token
	if pos := file.Position(l.SourceOffset(idx - 1)); pos != (source.LineCol{Line: 2, Col: 5}) {
		t.Fatalf("join space mapped to %+v", pos)
	}
	if l.Position() != (source.LineCol{Line: 1, Col: 1}) {
		t.Fatalf("line position %+v", l.Position())
	}
}
