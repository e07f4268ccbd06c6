package driver

import (
	"context"
	"fmt"

	"pyrite/internal/checker"
	"pyrite/internal/diag"
	"pyrite/internal/lexer"
	"pyrite/internal/logical"
	"pyrite/internal/observ"
	"pyrite/internal/parser"
	"pyrite/internal/rules"
	"pyrite/internal/source"
	"pyrite/internal/trace"
)

// Analysis is the result of analysing one file.
type Analysis struct {
	Bag *diag.Bag
	// Failed is set when the file could not be lexed or parsed; Bag then
	// holds exactly one AnalysisFailed diagnostic.
	Failed  bool
	Timings *observ.Report
}

// AnalyzeFile runs every enabled check over file. It depends only on the
// file content, the engine and opts: calling it twice gives equal results.
// Token-level diagnostics come first, then AST diagnostics in rule
// registration order.
func AnalyzeFile(ctx context.Context, file *source.File, engine *checker.Engine, opts *Options) Analysis {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "analyze", trace.CurrentSpan(ctx)).
		WithExtra("path", file.Path)
	ctx = trace.WithSpan(ctx, span)

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}
	finish := func(a Analysis) Analysis {
		if timer != nil {
			report := timer.Report()
			a.Timings = &report
		}
		span.End(fmt.Sprintf("diagnostics=%d failed=%t", a.Bag.Len(), a.Failed))
		return a
	}

	sel := opts.selectionFor(file.Path)
	first := &diag.FirstReporter{}

	lexIdx := begin("tokenize")
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: first, TabSize: opts.TabSize})
	end(lexIdx, fmt.Sprintf("%d tokens", len(tokens)))
	if d, ok := first.First(); ok {
		return finish(failed(d, opts.MaxDiagnostics))
	}

	linesIdx := begin("logical_lines")
	lines := logical.Build(file, tokens, logical.Options{BracketAwareJoin: opts.BracketAwareJoin})
	tokenBag := diag.NewBag(0)
	rules.CheckLogicalLines(lines, diag.BagReporter{Bag: tokenBag}, sel.Enabled)
	end(linesIdx, fmt.Sprintf("%d lines", len(lines)))

	parseIdx := begin("parse")
	res := parser.ParseFile(ctx, file, tokens, parser.Options{Reporter: first, MaxErrors: 1})
	end(parseIdx, "")
	if d, ok := first.First(); ok {
		return finish(failed(d, opts.MaxDiagnostics))
	}

	checkIdx := begin("check")
	astBag := engine.Check(ctx, res.Builder, file)
	astBag.Filter(func(d diag.Diagnostic) bool { return sel.Enabled(d.Code) })
	end(checkIdx, fmt.Sprintf("%d rules", len(engine.Rules())))

	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Merge(tokenBag)
	bag.Merge(astBag)
	return finish(Analysis{Bag: bag})
}

// failed turns the first lexer/parser error into the file's only diagnostic.
func failed(first diag.Diagnostic, maxDiagnostics int) Analysis {
	bag := diag.NewBag(maxDiagnostics)
	d := diag.NewError(diag.AnalysisFailed, first.Primary, "could not analyze: "+first.Message).
		WithNote(first.Primary, first.Code.ID())
	bag.Add(d)
	return Analysis{Bag: bag, Failed: true}
}
