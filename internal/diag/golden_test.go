package diag

import (
	"testing"

	"pyrite/internal/source"
)

func TestFormatShortDiagnosticsKeepsOrder(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/pkg/sample.py", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     FlakesIfTuple,
			Message:  "if test is a tuple\nwhich is always true",
			Primary:  source.Span{File: file, Start: 2, End: 3},
			Notes:    []Note{{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "context"}},
		},
		{
			Severity: SevError,
			Code:     AnalysisFailed,
			Message:  "could not analyze",
			Primary:  source.Span{File: file, Start: 0, End: 1},
		},
	}

	want := "warning F634 pkg/sample.py:2:1 if test is a tuple which is always true\n" +
		"note F634 pkg/sample.py:1:1 context\n" +
		"error E999 pkg/sample.py:1:1 could not analyze"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		StyleMultipleSpacesBeforeOperator: "E221",
		StyleTabAfterOperator:             "E224",
		AnalysisFailed:                    "E999",
		FlakesAssertTuple:                 "F631",
		BugbearCachedInstanceMethod:       "B019",
		LexUnknownChar:                    "LEX1001",
		SynUnexpectedToken:                "SYN2001",
		TestFailed:                        "T001",
	}
	for code, id := range tests {
		if code.ID() != id {
			t.Errorf("%d.ID() = %s, want %s", code, code.ID(), id)
		}
		if back, ok := LookupCode(id); !ok || back != code {
			t.Errorf("LookupCode(%s) = %d, %v", id, back, ok)
		}
	}
}

func TestMatchesPrefix(t *testing.T) {
	if !StyleTabBeforeOperator.MatchesPrefix("E2") || StyleTabBeforeOperator.MatchesPrefix("E7") {
		t.Fatal("prefix E2 mismatch")
	}
	if !FlakesIfTuple.MatchesPrefix("all") || FlakesIfTuple.MatchesPrefix("") {
		t.Fatal("ALL/empty prefix mismatch")
	}
	if AnalysisFailed.IsLint() || !BugbearMutableArgumentDefault.IsLint() {
		t.Fatal("IsLint mismatch")
	}
}

func TestBagCapAndFilter(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(Diagnostic{Code: FlakesIfTuple, Primary: source.Span{Start: uint32(i)}})
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	b.Filter(func(d Diagnostic) bool { return d.Primary.Start != 0 })
	if b.Len() != 1 || b.Items()[0].Primary.Start != 1 {
		t.Fatalf("filter result %+v", b.Items())
	}
}

func TestFirstReporterKeepsFirstError(t *testing.T) {
	var r FirstReporter
	ReportWarning(&r, FlakesIfTuple, source.Span{}, "ignored").Emit()
	ReportError(&r, SynUnexpectedToken, source.Span{Start: 3}, "first").Emit()
	ReportError(&r, SynExpectColon, source.Span{Start: 9}, "second").Emit()

	d, ok := r.First()
	if !ok || d.Code != SynUnexpectedToken || d.Message != "first" {
		t.Fatalf("First() = %+v, %v", d, ok)
	}
}
