package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// Supported: 0x/0o/0b integers, decimal integers, floats with fraction
// and/or exponent, imaginary suffix j. Underscores are accepted between
// digits; placement is not validated beyond "no trailing underscore".
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.Int

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		}
		if digit != nil {
			lx.cursor.Off += 2
			n := lx.eatDigits(digit)
			tok := lx.make(token.Int, start)
			if n == 0 {
				lx.report(diag.LexBadNumber, tok.Span, "invalid digit in integer literal")
			}
			return lx.checkSuffix(tok)
		}
	}

	lx.eatDigits(isDec)
	intEnd := lx.cursor.Off
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.Float
		lx.eatDigits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.eatDigits(isDec) == 0 {
			tok := lx.make(token.Invalid, start)
			lx.report(diag.LexBadNumber, tok.Span, "expected digits in exponent")
			return tok
		}
		kind = token.Float
	}
	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		lx.cursor.Bump()
		kind = token.Complex
	}

	tok := lx.make(kind, start)
	if kind == token.Int && hasLeadingZero(lx.file.Content[start:intEnd]) {
		lx.report(diag.LexBadNumber, tok.Span, "leading zeros in decimal integer literals are not permitted")
	}
	return lx.checkSuffix(tok)
}

// eatDigits consumes digits and single underscores between them.
func (lx *Lexer) eatDigits(digit func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		if digit(b) {
			lx.cursor.Bump()
			n++
			continue
		}
		if b == '_' && n > 0 && digit(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			continue
		}
		return n
	}
}

// checkSuffix rejects a name glued to a number ("12abc").
func (lx *Lexer) checkSuffix(tok token.Token) token.Token {
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		lx.report(diag.LexBadNumber, tok.Span, "invalid number literal")
	}
	return tok
}

func hasLeadingZero(digits []byte) bool {
	if len(digits) < 2 || digits[0] != '0' {
		return false
	}
	for _, b := range digits {
		if b != '0' && b != '_' {
			return true
		}
	}
	return false
}
