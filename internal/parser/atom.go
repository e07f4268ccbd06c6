package parser

import (
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

func (p *Parser) parseAtom() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Name:
		p.advance()
		return p.b.Exprs.NewName(tok.Span, tok.Text), true
	case token.Int:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstInt, tok.Text), true
	case token.Float:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstFloat, tok.Text), true
	case token.Complex:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstComplex, tok.Text), true
	case token.KwNone:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstNone, tok.Text), true
	case token.KwTrue:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstTrue, tok.Text), true
	case token.KwFalse:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstFalse, tok.Text), true
	case token.Ellipsis:
		p.advance()
		return p.b.Exprs.NewConstant(tok.Span, ast.ConstEllipsis, tok.Text), true
	case token.String:
		return p.parseStrings()
	case token.LParen:
		return p.parseParenthesized()
	case token.LBracket:
		return p.parseListDisplay()
	case token.LBrace:
		return p.parseBraceDisplay()
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+tok.Kind.String())
	return ast.NoExprID, false
}

// parseStrings joins adjacent literals (implicit concatenation) into one
// constant. Mixing bytes and text is an error.
func (p *Parser) parseStrings() (ast.ExprID, bool) {
	first := p.advance()
	kind := stringKind(first.Text)
	span := first.Span
	for p.at(token.String) {
		tok := p.advance()
		if stringKind(tok.Text) != kind {
			p.errAt(diag.SynUnexpectedToken, tok.Span, "cannot mix bytes and nonbytes literals")
			return ast.NoExprID, false
		}
		span = span.Cover(tok.Span)
	}
	return p.b.Exprs.NewConstant(span, kind, p.file.Slice(span)), true
}

func stringKind(text string) ast.ConstKind {
	prefix := text
	if i := strings.IndexAny(text, `'"`); i >= 0 {
		prefix = text[:i]
	}
	if strings.ContainsAny(prefix, "bB") {
		return ast.ConstBytes
	}
	return ast.ConstString
}

// parseParenthesized handles `()`, `(x)`, `(x,)`, `(yield)`, and generator
// expressions. Tuples and generators take the parentheses into their span;
// a plain parenthesized expression keeps its own.
func (p *Parser) parseParenthesized() (ast.ExprID, bool) {
	open := p.advance()
	if p.eat(token.RParen) {
		return p.b.Exprs.NewSeq(ast.ExprTuple, p.spanFrom(open.Span), nil, true), true
	}
	if p.at(token.KwYield) {
		inner, ok := p.parseYield()
		if !ok {
			return ast.NoExprID, false
		}
		_, ok = p.expect(token.RParen, diag.SynExpectClosing, "expected ')'")
		return inner, ok
	}

	first, ok := p.parseStarNamed()
	if !ok {
		return ast.NoExprID, false
	}
	if p.atCompFor() {
		gen, ok := p.parseComprehension(ast.ExprGenerator, open.Span, first, ast.NoExprID)
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.RParen, diag.SynExpectClosing, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		p.b.Exprs.SetSpan(gen, p.spanFrom(open.Span))
		return gen, true
	}
	if p.eat(token.RParen) {
		return first, true
	}
	if !p.at(token.Comma) {
		p.err(diag.SynExpectClosing, "expected ')'")
		return ast.NoExprID, false
	}
	elts, ok := p.parseDisplayTail(first, token.RParen)
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewSeq(ast.ExprTuple, p.spanFrom(open.Span), elts, true), true
}

func (p *Parser) parseListDisplay() (ast.ExprID, bool) {
	open := p.advance()
	if p.eat(token.RBracket) {
		return p.b.Exprs.NewSeq(ast.ExprList, p.spanFrom(open.Span), nil, false), true
	}
	first, ok := p.parseStarNamed()
	if !ok {
		return ast.NoExprID, false
	}
	if p.atCompFor() {
		return p.finishComprehension(ast.ExprListComp, open.Span, first, ast.NoExprID, token.RBracket)
	}
	var elts []ast.ExprID
	if p.at(token.Comma) {
		if elts, ok = p.parseDisplayTail(first, token.RBracket); !ok {
			return ast.NoExprID, false
		}
	} else {
		elts = []ast.ExprID{first}
		if _, ok = p.expect(token.RBracket, diag.SynExpectClosing, "expected ']'"); !ok {
			return ast.NoExprID, false
		}
	}
	return p.b.Exprs.NewSeq(ast.ExprList, p.spanFrom(open.Span), elts, false), true
}

// parseBraceDisplay handles dict and set displays and their comprehensions.
func (p *Parser) parseBraceDisplay() (ast.ExprID, bool) {
	open := p.advance()
	if p.eat(token.RBrace) {
		return p.b.Exprs.NewDict(p.spanFrom(open.Span), nil, nil), true
	}

	// dict: `**m` or `key: value` first
	if p.at(token.StarStar) {
		return p.parseDictTail(open.Span, nil, nil)
	}
	first, ok := p.parseStarNamed()
	if !ok {
		return ast.NoExprID, false
	}
	if p.eat(token.Colon) {
		value, ok := p.parseTest()
		if !ok {
			return ast.NoExprID, false
		}
		if p.atCompFor() {
			return p.finishComprehension(ast.ExprDictComp, open.Span, first, value, token.RBrace)
		}
		return p.parseDictTail(open.Span, []ast.ExprID{first}, []ast.ExprID{value})
	}

	if p.atCompFor() {
		return p.finishComprehension(ast.ExprSetComp, open.Span, first, ast.NoExprID, token.RBrace)
	}
	var elts []ast.ExprID
	if p.at(token.Comma) {
		if elts, ok = p.parseDisplayTail(first, token.RBrace); !ok {
			return ast.NoExprID, false
		}
	} else {
		elts = []ast.ExprID{first}
		if _, ok = p.expect(token.RBrace, diag.SynExpectClosing, "expected '}'"); !ok {
			return ast.NoExprID, false
		}
	}
	return p.b.Exprs.NewSeq(ast.ExprSet, p.spanFrom(open.Span), elts, false), true
}

// parseDictTail continues a dict display after zero or more parsed
// entries, through the closing brace.
func (p *Parser) parseDictTail(open source.Span, keys, values []ast.ExprID) (ast.ExprID, bool) {
	if len(keys) > 0 && !p.eat(token.Comma) {
		if _, ok := p.expect(token.RBrace, diag.SynExpectClosing, "expected '}'"); !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewDict(p.spanFrom(open), keys, values), true
	}
	for !p.at(token.RBrace) {
		if p.eat(token.StarStar) {
			value, ok := p.parseBitOr()
			if !ok {
				return ast.NoExprID, false
			}
			keys = append(keys, ast.NoExprID)
			values = append(values, value)
		} else {
			key, ok := p.parseTest()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' in dict display"); !ok {
				return ast.NoExprID, false
			}
			value, ok := p.parseTest()
			if !ok {
				return ast.NoExprID, false
			}
			keys = append(keys, key)
			values = append(values, value)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynExpectClosing, "expected '}'"); !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewDict(p.spanFrom(open), keys, values), true
}

// parseDisplayTail collects the remaining comma-separated elements after
// first and consumes the closing bracket.
func (p *Parser) parseDisplayTail(first ast.ExprID, closing token.Kind) ([]ast.ExprID, bool) {
	elts := []ast.ExprID{first}
	for p.eat(token.Comma) {
		if p.at(closing) {
			break
		}
		next, ok := p.parseStarNamed()
		if !ok {
			return nil, false
		}
		elts = append(elts, next)
	}
	if _, ok := p.expect(closing, diag.SynExpectClosing, "expected '"+closing.String()+"'"); !ok {
		return nil, false
	}
	return elts, true
}

func (p *Parser) atCompFor() bool {
	return p.at(token.KwFor) || (p.at(token.KwAsync) && p.peekAt(1).Kind == token.KwFor)
}

func (p *Parser) finishComprehension(kind ast.ExprKind, open source.Span, elt, value ast.ExprID, closing token.Kind) (ast.ExprID, bool) {
	comp, ok := p.parseComprehension(kind, open, elt, value)
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(closing, diag.SynExpectClosing, "expected '"+closing.String()+"'"); !ok {
		return ast.NoExprID, false
	}
	p.b.Exprs.SetSpan(comp, p.spanFrom(open))
	return comp, true
}

// parseComprehension parses one or more `for ... in ... [if ...]` clauses.
func (p *Parser) parseComprehension(kind ast.ExprKind, start source.Span, elt, value ast.ExprID) (ast.ExprID, bool) {
	data := ast.CompData{Elt: elt, Value: value}
	for p.atCompFor() {
		gen := ast.Comprehension{}
		if p.eat(token.KwAsync) {
			gen.Async = true
		}
		p.advance() // for
		var ok bool
		if gen.Target, ok = p.parseForTarget(); !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in'"); !ok {
			return ast.NoExprID, false
		}
		if gen.Iter, ok = p.parseOr(); !ok {
			return ast.NoExprID, false
		}
		for p.eat(token.KwIf) {
			cond, ok := p.parseOr()
			if !ok {
				return ast.NoExprID, false
			}
			gen.Ifs = append(gen.Ifs, cond)
		}
		data.Generators = append(data.Generators, gen)
	}
	return p.b.Exprs.NewComp(kind, p.spanFrom(start), data), true
}
