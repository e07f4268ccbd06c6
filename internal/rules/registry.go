package rules

import (
	"strings"

	"pyrite/internal/checker"
	"pyrite/internal/diag"
)

// ID is the closed set of AST rules. Adding a rule means extending this enum
// and the table below.
type ID uint8

const (
	IfTuple ID = iota
	AssertTuple
	CachedInstanceMethod
	NoneComparison
	TrueFalseComparison
	MutableArgumentDefault
	idCount
)

// table is indexed by ID; the order is the registration order.
var table = [idCount]checker.Rule{
	IfTuple: {
		Name: "if-tuple",
		Code: diag.FlakesIfTuple,
		Stmt: checkIfTuple,
	},
	AssertTuple: {
		Name: "assert-tuple",
		Code: diag.FlakesAssertTuple,
		Stmt: checkAssertTuple,
	},
	CachedInstanceMethod: {
		Name:       "cached-instance-method",
		Code:       diag.BugbearCachedInstanceMethod,
		Decorators: checkCachedInstanceMethod,
	},
	NoneComparison: {
		Name: "none-comparison",
		Code: diag.StyleNoneComparison,
		Expr: checkNoneComparison,
	},
	TrueFalseComparison: {
		Name: "true-false-comparison",
		Code: diag.StyleTrueFalseComparison,
		Expr: checkTrueFalseComparison,
	},
	MutableArgumentDefault: {
		Name: "mutable-argument-default",
		Code: diag.BugbearMutableArgumentDefault,
		Stmt: checkMutableArgumentDefault,
	},
}

// Rule returns the rule record for id.
func (id ID) Rule() checker.Rule {
	return table[id]
}

func (id ID) String() string {
	if id < idCount {
		return table[id].Name
	}
	return "unknown"
}

// All returns every AST rule in registration order.
func All() []checker.Rule {
	out := make([]checker.Rule, len(table))
	copy(out, table[:])
	return out
}

// TokenCodes lists the codes produced by CheckLogicalLines.
var TokenCodes = []diag.Code{
	diag.StyleMultipleSpacesBeforeOperator,
	diag.StyleMultipleSpacesAfterOperator,
	diag.StyleTabBeforeOperator,
	diag.StyleTabAfterOperator,
}

// Selection decides which codes are enabled from select / ignore prefix
// lists. An empty select enables everything.
type Selection struct {
	Select []string
	Ignore []string
}

// Enabled applies the longest-prefix-wins rule: a code is enabled when its
// longest matching select prefix is longer than its longest matching ignore
// prefix.
func (s Selection) Enabled(code diag.Code) bool {
	sel := 0
	if len(s.Select) == 0 {
		sel = 1
	}
	for _, p := range s.Select {
		if code.MatchesPrefix(p) && prefixLen(p) > sel {
			sel = prefixLen(p)
		}
	}
	if sel == 0 {
		return false
	}
	for _, p := range s.Ignore {
		if code.MatchesPrefix(p) && prefixLen(p) >= sel {
			return false
		}
	}
	return true
}

func prefixLen(p string) int {
	p = strings.TrimSpace(p)
	if strings.EqualFold(p, "ALL") {
		return 1
	}
	return len(p)
}

// Rules returns the enabled AST rules in registration order.
func (s Selection) Rules() []checker.Rule {
	out := make([]checker.Rule, 0, len(table))
	for i := range table {
		if s.Enabled(table[i].Code) {
			out = append(out, table[i])
		}
	}
	return out
}

// Validate reports prefixes that match no known rule code.
func (s Selection) Validate() []string {
	var unknown []string
	codes := append([]diag.Code(nil), TokenCodes...)
	for i := range table {
		codes = append(codes, table[i].Code)
	}
	for _, p := range append(append([]string(nil), s.Select...), s.Ignore...) {
		matched := false
		for _, c := range codes {
			if c.MatchesPrefix(p) {
				matched = true
				break
			}
		}
		if !matched {
			unknown = append(unknown, p)
		}
	}
	return unknown
}
