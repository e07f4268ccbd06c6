package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanIdentOrKeyword scans a name and classifies keywords. Non-ASCII names
// are NFKC-normalized the way the Python tokenizer does, so `ﬁle` and
// `file` bind the same name.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		lx.bumpRune()
		tok := lx.make(token.Invalid, start)
		lx.report(diag.LexUnknownChar, tok.Span, "invalid character in identifier")
		return tok
	}
	ascii := true
	for {
		r, sz = lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	tok := lx.make(token.Name, start)
	if !ascii {
		tok.Text = norm.NFKC.String(tok.Text)
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
