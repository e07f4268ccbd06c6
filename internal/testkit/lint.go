package testkit

import (
	"context"
	"testing"

	"pyrite/internal/checker"
	"pyrite/internal/diag"
	"pyrite/internal/driver"
	"pyrite/internal/lexer"
	"pyrite/internal/parser"
	"pyrite/internal/source"
)

// Finding is a diagnostic resolved against its source.
type Finding struct {
	Code    string
	Message string
	Range   source.Range
	Text    string // source covered by the primary span
	Diag    diag.Diagnostic
}

// Lint analyses src as one file with every rule enabled.
func Lint(t testing.TB, src string) []Finding {
	t.Helper()
	return LintWith(t, src, driver.Options{})
}

// LintWith analyses src with opts. The engine runs the rules selected by
// opts.Selection.
func LintWith(t testing.TB, src string, opts driver.Options) []Finding {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	engine := checker.New(opts.Selection.Rules())
	a := driver.AnalyzeFile(context.Background(), file, engine, &opts)

	out := make([]Finding, 0, a.Bag.Len())
	for _, d := range a.Bag.Items() {
		out = append(out, Finding{
			Code:    d.Code.ID(),
			Message: d.Message,
			Range:   fs.Range(d.Primary),
			Text:    file.Slice(d.Primary),
			Diag:    d,
		})
	}
	return out
}

// Codes lists the codes of findings in order.
func Codes(findings []Finding) []string {
	out := make([]string, len(findings))
	for i := range findings {
		out[i] = findings[i].Code
	}
	return out
}

// Count counts findings with code.
func Count(findings []Finding, code string) int {
	n := 0
	for i := range findings {
		if findings[i].Code == code {
			n++
		}
	}
	return n
}

// MustParse parses src and checks the span invariants.
func MustParse(t testing.TB, src string) (*source.File, *parser.Result) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	bag := diag.NewBag(0)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.ParseFile(context.Background(), file, tokens, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, bag.Items())
	}
	if err := CheckSpanInvariants(res.Builder, file); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return file, &res
}
