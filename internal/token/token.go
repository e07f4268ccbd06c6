package token

import (
	"pyrite/internal/source"
)

// Token is one lexeme with its byte span and resolved positions.
// Start and End are what the logical line builder compares; End is the
// position just past the last byte.
type Token struct {
	Kind  Kind
	Span  source.Span
	Start source.LineCol
	End   source.LineCol
	Text  string
}

// IsKeyword reports whether the token is a hard keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

func (t Token) String() string {
	switch t.Kind {
	case Name, Int, Float, Complex, String, Comment:
		return t.Kind.String() + "(" + t.Text + ")"
	default:
		return t.Kind.String()
	}
}
