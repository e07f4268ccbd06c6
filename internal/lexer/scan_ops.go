package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// Greedy: three-byte operators first, then two, then one.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		return lx.make(k, start)
	}

	switch {
	case lx.try3('*', '*', '='):
		return emit(token.StarStarAssign)
	case lx.try3('/', '/', '='):
		return emit(token.SlashSlashAssign)
	case lx.try3('<', '<', '='):
		return emit(token.ShlAssign)
	case lx.try3('>', '>', '='):
		return emit(token.ShrAssign)
	case lx.try3('.', '.', '.'):
		return emit(token.Ellipsis)
	case lx.try2('*', '*'):
		return emit(token.StarStar)
	case lx.try2('/', '/'):
		return emit(token.SlashSlash)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2(':', '='):
		return emit(token.ColonAssign)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	case lx.try2('@', '='):
		return emit(token.AtAssign)
	case lx.try2('&', '='):
		return emit(token.AmpAssign)
	case lx.try2('|', '='):
		return emit(token.PipeAssign)
	case lx.try2('^', '='):
		return emit(token.CaretAssign)
	}

	switch lx.cursor.Bump() {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '@':
		return emit(token.At)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '~':
		return emit(token.Tilde)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '=':
		return emit(token.Assign)
	case '.':
		return emit(token.Dot)
	case ',':
		return emit(token.Comma)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case '(':
		lx.depth++
		return emit(token.LParen)
	case '[':
		lx.depth++
		return emit(token.LBracket)
	case '{':
		lx.depth++
		return emit(token.LBrace)
	case ')':
		return lx.closeBracket(emit(token.RParen))
	case ']':
		return lx.closeBracket(emit(token.RBracket))
	case '}':
		return lx.closeBracket(emit(token.RBrace))
	default:
		tok := emit(token.Invalid)
		lx.report(diag.LexUnknownChar, tok.Span, "invalid character "+quoteText(tok.Text))
		return tok
	}
}

func (lx *Lexer) closeBracket(tok token.Token) token.Token {
	if lx.depth == 0 {
		lx.report(diag.LexUnmatchedBracket, tok.Span, "unmatched '"+tok.Text+"'")
		return tok
	}
	lx.depth--
	return tok
}

func quoteText(s string) string {
	return "'" + s + "'"
}
