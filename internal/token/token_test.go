package token_test

import (
	"testing"

	"pyrite/internal/token"
)

func TestKeywordLookup(t *testing.T) {
	for _, kw := range []string{"def", "class", "None", "lambda", "nonlocal"} {
		k, ok := token.LookupKeyword(kw)
		if !ok || !k.IsKeyword() || k.String() != kw {
			t.Errorf("LookupKeyword(%q) = %v, %v", kw, k, ok)
		}
	}
	for _, soft := range []string{"match", "case", "type", "print", "none"} {
		if _, ok := token.LookupKeyword(soft); ok {
			t.Errorf("%q must stay a name", soft)
		}
	}
}

func TestKindClassification(t *testing.T) {
	for _, k := range []token.Kind{token.LParen, token.LBracket, token.LBrace} {
		if !k.IsOpenBracket() || k.IsCloseBracket() {
			t.Errorf("%v misclassified", k)
		}
	}
	for _, k := range []token.Kind{token.Newline, token.Indent, token.Dedent, token.Comment} {
		if !k.IsTrivia() {
			t.Errorf("%v should be trivia", k)
		}
	}
	if token.String.IsTrivia() || token.Name.IsOperator() {
		t.Error("literal kinds misclassified")
	}
	if !token.ShrAssign.IsAugAssign() || token.Assign.IsAugAssign() {
		t.Error("aug-assign range wrong")
	}
}

func TestEveryKindHasName(t *testing.T) {
	for k := token.Invalid; k <= token.RBrace; k++ {
		if k.String() == "Kind(?)" {
			t.Errorf("kind %d has no name", k)
		}
	}
}
