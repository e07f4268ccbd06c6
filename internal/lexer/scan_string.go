package lexer

import (
	"strings"

	"pyrite/internal/diag"
	"pyrite/internal/token"
)

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

// stringPrefixLen returns the length of a string prefix followed by a
// quote at the cursor (0 for a bare quote), or -1 when no string starts here.
func (lx *Lexer) stringPrefixLen() int {
	for n := 0; n <= 2; n++ {
		n32 := uint32(n)
		q := lx.cursor.PeekAt(n32)
		if q == '\'' || q == '"' {
			if n == 0 {
				return 0
			}
			prefix := strings.ToLower(string(lx.file.Content[lx.cursor.Off : lx.cursor.Off+n32]))
			if stringPrefixes[prefix] {
				return n
			}
			return -1
		}
		if !isIdentStartByte(q) {
			return -1
		}
	}
	return -1
}

// scanString scans a (possibly prefixed, possibly triple-quoted) string.
// Escapes are skipped, not decoded: only the extent matters to a linter.
// f-string replacement fields are not tokenized separately.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += uint32(lx.stringPrefixLen())

	quote := lx.cursor.Bump()
	triple := lx.cursor.Peek() == quote && lx.cursor.PeekAt(1) == quote
	if triple {
		lx.cursor.Off += 2
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == quote && !triple:
			lx.cursor.Bump()
			return lx.make(token.String, start)
		case b == quote && lx.cursor.PeekAt(1) == quote && lx.cursor.PeekAt(2) == quote:
			lx.cursor.Off += 3
			return lx.make(token.String, start)
		case b == '\n' && !triple:
			tok := lx.make(token.Invalid, start)
			lx.report(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.make(token.Invalid, start)
	if triple {
		lx.report(diag.LexUnterminatedString, tok.Span, "unterminated triple-quoted string literal")
	} else {
		lx.report(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	}
	return tok
}
