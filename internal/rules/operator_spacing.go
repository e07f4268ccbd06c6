package rules

import (
	"regexp"
	"strings"

	"pyrite/internal/diag"
	"pyrite/internal/logical"
)

// operatorPattern captures the whitespace around an operator run that
// follows an operand.
var operatorPattern = regexp.MustCompile(`[^,\s](\s*)(?:[-+*/|!<=>%&^]+|:=)(\s*)`)

// CheckLogicalLines runs the operator spacing checks (E221-E224) over the
// logical lines of one file. Codes for which enabled returns false are
// skipped; a nil enabled allows all.
func CheckLogicalLines(lines []logical.Line, r diag.Reporter, enabled func(diag.Code) bool) {
	if enabled == nil {
		enabled = func(diag.Code) bool { return true }
	}
	for i := range lines {
		line := &lines[i]
		for _, m := range operatorPattern.FindAllStringSubmatchIndex(line.Text, -1) {
			before := line.Text[m[2]:m[3]]
			after := line.Text[m[4]:m[5]]

			switch {
			case strings.ContainsRune(before, '\t'):
				reportSpacing(r, enabled, diag.StyleTabBeforeOperator, line, m[2], m[3], "Tab before operator")
			case len(before) > 1:
				reportSpacing(r, enabled, diag.StyleMultipleSpacesBeforeOperator, line, m[2], m[3], "Multiple spaces before operator")
			}

			switch {
			case strings.ContainsRune(after, '\t'):
				reportSpacing(r, enabled, diag.StyleTabAfterOperator, line, m[4], m[5], "Tab after operator")
			case len(after) > 1:
				reportSpacing(r, enabled, diag.StyleMultipleSpacesAfterOperator, line, m[4], m[5], "Multiple spaces after operator")
			}
		}
	}
}

func reportSpacing(r diag.Reporter, enabled func(diag.Code) bool, code diag.Code, line *logical.Line, start, end int, msg string) {
	if !enabled(code) {
		return
	}
	diag.ReportWarning(r, code, line.SourceSpan(start, end), msg).
		WithNote(line.Span, "logical line: "+line.Text).
		Emit()
}
