package diag

import (
	"fmt"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexBadNumber           Code = 1003
	LexInconsistentDedent  Code = 1004
	LexUnclosedBracket     Code = 1005
	LexUnmatchedBracket    Code = 1006
	LexBadLineContinuation Code = 1007

	// Парсерные
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectColon      Code = 2004
	SynExpectIndent     Code = 2005
	SynExpectNewline    Code = 2006
	SynInvalidTarget    Code = 2007
	SynBadParameters    Code = 2008
	SynExpectClosing    Code = 2009
	SynBadImport        Code = 2010

	// IO
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// pycodestyle (E)
	StyleMultipleSpacesBeforeOperator Code = 6221
	StyleMultipleSpacesAfterOperator  Code = 6222
	StyleTabBeforeOperator            Code = 6223
	StyleTabAfterOperator             Code = 6224
	StyleNoneComparison               Code = 6711
	StyleTrueFalseComparison          Code = 6712
	AnalysisFailed                    Code = 6999

	// pyflakes (F)
	FlakesAssertTuple Code = 7631
	FlakesIfTuple     Code = 7634

	// bugbear (B)
	BugbearMutableArgumentDefault Code = 8006
	BugbearCachedInstanceMethod   Code = 8019

	// test runner (T)
	TestFailed        Code = 9001
	TestRunnerStatus  Code = 9002
	TestIndeterminate Code = 9003
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string literal",
	LexBadNumber:           "Malformed number literal",
	LexInconsistentDedent:  "Unindent does not match any outer indentation level",
	LexUnclosedBracket:     "Unclosed bracket at end of file",
	LexUnmatchedBracket:    "Closing bracket without an opening one",
	LexBadLineContinuation: "Unexpected character after line continuation",

	SynUnexpectedToken:  "Unexpected token",
	SynExpectExpression: "Expected expression",
	SynExpectIdentifier: "Expected identifier",
	SynExpectColon:      "Expected ':'",
	SynExpectIndent:     "Expected an indented block",
	SynExpectNewline:    "Expected end of statement",
	SynInvalidTarget:    "Invalid assignment target",
	SynBadParameters:    "Invalid parameter list",
	SynExpectClosing:    "Expected closing bracket",
	SynBadImport:        "Invalid import statement",

	IOLoadFileError: "Failed to read file",
	IOCacheError:    "Cache unavailable",

	StyleMultipleSpacesBeforeOperator: "multiple spaces before operator",
	StyleMultipleSpacesAfterOperator:  "multiple spaces after operator",
	StyleTabBeforeOperator:            "tab before operator",
	StyleTabAfterOperator:             "tab after operator",
	StyleNoneComparison:               "comparison to None",
	StyleTrueFalseComparison:          "comparison to True or False",
	AnalysisFailed:                    "could not analyze",

	FlakesAssertTuple: "assert test is a non-empty tuple",
	FlakesIfTuple:     "if test is a non-empty tuple",

	BugbearMutableArgumentDefault: "mutable data structure as argument default",
	BugbearCachedInstanceMethod:   "lru_cache or cache on a method",

	TestFailed:        "Tests failed",
	TestRunnerStatus:  "Test runner failed",
	TestIndeterminate: "Test runner exit status unknown",
}

var codeByID = func() map[string]Code {
	m := make(map[string]Code, len(codeDescription))
	for c := range codeDescription {
		m[c.ID()] = c
	}
	return m
}()

// ID returns the stable identifier: LEX/SYN/IO prefixed for tool errors,
// the conventional lint code (E221, F634, B019) for rules.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("E%03d", ic-6000)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("F%03d", ic-7000)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("B%03d", ic-8000)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("T%03d", ic-9000)
	}
	return "E0000"
}

// IsLint reports whether the code belongs to a selectable rule.
func (c Code) IsLint() bool {
	return c >= 6000 && c < 9000 && c != AnalysisFailed
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// LookupCode maps an ID such as "E221" back to its Code.
func LookupCode(id string) (Code, bool) {
	c, ok := codeByID[strings.ToUpper(id)]
	return c, ok
}

// MatchesPrefix reports whether c is selected by a prefix such as "E2",
// "F634" or "ALL".
func (c Code) MatchesPrefix(prefix string) bool {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "ALL" {
		return true
	}
	return prefix != "" && strings.HasPrefix(c.ID(), prefix)
}
