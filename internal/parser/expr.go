package parser

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

// startsExpr reports whether k can begin an expression.
func startsExpr(k token.Kind) bool {
	switch k {
	case token.Name, token.Int, token.Float, token.Complex, token.String,
		token.KwNone, token.KwTrue, token.KwFalse, token.KwNot, token.KwLambda,
		token.KwAwait, token.Minus, token.Plus, token.Tilde, token.Star,
		token.LParen, token.LBracket, token.LBrace, token.Ellipsis:
		return true
	}
	return false
}

func (p *Parser) parseStarTestListOrYield() (ast.ExprID, bool) {
	if p.at(token.KwYield) {
		return p.parseYield()
	}
	return p.parseStarTestList()
}

// parseStarTestList parses `a, *b, c`; a trailing comma or more than one
// element makes an unparenthesized tuple.
func (p *Parser) parseStarTestList() (ast.ExprID, bool) {
	return p.parseList(p.parseStarTest)
}

// parseTestList is parseStarTestList without starred elements.
func (p *Parser) parseTestList() (ast.ExprID, bool) {
	return p.parseList(p.parseTest)
}

func (p *Parser) parseList(item func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	start := p.peek().Span
	first, ok := item()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	elts := []ast.ExprID{first}
	for p.eat(token.Comma) {
		if !startsExpr(p.peek().Kind) {
			break
		}
		next, ok := item()
		if !ok {
			return ast.NoExprID, false
		}
		elts = append(elts, next)
	}
	return p.b.Exprs.NewSeq(ast.ExprTuple, p.spanFrom(start), elts, false), true
}

func (p *Parser) parseStarTest() (ast.ExprID, bool) {
	if p.at(token.Star) {
		return p.parseStarred()
	}
	return p.parseTest()
}

// parseStarNamed is an element of a display: `*x`, `x := 1` or a test.
func (p *Parser) parseStarNamed() (ast.ExprID, bool) {
	if p.at(token.Star) {
		return p.parseStarred()
	}
	return p.parseNamedExpr()
}

func (p *Parser) parseStarred() (ast.ExprID, bool) {
	start := p.advance().Span
	inner, ok := p.parseBitOr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewValue(ast.ExprStarred, p.spanFrom(start), inner), true
}

func (p *Parser) parseNamedExpr() (ast.ExprID, bool) {
	if p.at(token.Name) && p.peekAt(1).Kind == token.ColonAssign {
		nameTok := p.advance()
		target := p.b.Exprs.NewName(nameTok.Span, nameTok.Text)
		p.advance() // :=
		value, ok := p.parseTest()
		if !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewNamed(p.spanFrom(nameTok.Span), target, value), true
	}
	return p.parseTest()
}

// parseTest: lambda, or a disjunction with an optional conditional suffix.
func (p *Parser) parseTest() (ast.ExprID, bool) {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	start := p.peek().Span
	body, ok := p.parseOr()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.eat(token.KwIf) {
		return body, true
	}
	test, ok := p.parseOr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	orelse, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewIfExp(p.spanFrom(start), ast.IfExpData{Test: test, Body: body, Orelse: orelse}), true
}

func (p *Parser) parseLambda() (ast.ExprID, bool) {
	start := p.advance().Span
	params, ok := p.parseParams(token.Colon, false)
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' in lambda"); !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewLambda(p.spanFrom(start), params, body), true
}

func (p *Parser) parseYield() (ast.ExprID, bool) {
	start := p.advance().Span
	if p.eat(token.KwFrom) {
		value, ok := p.parseTest()
		if !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewValue(ast.ExprYieldFrom, p.spanFrom(start), value), true
	}
	value := ast.NoExprID
	if startsExpr(p.peek().Kind) {
		var ok bool
		if value, ok = p.parseStarTestList(); !ok {
			return ast.NoExprID, false
		}
	}
	return p.b.Exprs.NewValue(ast.ExprYield, p.spanFrom(start), value), true
}

func (p *Parser) parseOr() (ast.ExprID, bool) {
	return p.parseBoolChain(token.KwOr, ast.BoolOr, p.parseAnd)
}

func (p *Parser) parseAnd() (ast.ExprID, bool) {
	return p.parseBoolChain(token.KwAnd, ast.BoolAnd, p.parseNot)
}

// parseBoolChain flattens `a or b or c` into one BoolOp.
func (p *Parser) parseBoolChain(kw token.Kind, op ast.BoolOp, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	start := p.peek().Span
	first, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(kw) {
		return first, true
	}
	values := []ast.ExprID{first}
	for p.eat(kw) {
		v, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		values = append(values, v)
	}
	return p.b.Exprs.NewBool(p.spanFrom(start), op, values), true
}

func (p *Parser) parseNot() (ast.ExprID, bool) {
	if !p.at(token.KwNot) {
		return p.parseComparison()
	}
	start := p.advance().Span
	operand, ok := p.parseNot()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewUnary(p.spanFrom(start), ast.UnaryNot, operand), true
}

func (p *Parser) parseComparison() (ast.ExprID, bool) {
	start := p.peek().Span
	left, ok := p.parseBitOr()
	if !ok {
		return ast.NoExprID, false
	}
	var data ast.CompareData
	for {
		op, opSpan, found := p.compareOp()
		if !found {
			break
		}
		right, ok := p.parseBitOr()
		if !ok {
			return ast.NoExprID, false
		}
		data.Ops = append(data.Ops, op)
		data.OpSpans = append(data.OpSpans, opSpan)
		data.Comparators = append(data.Comparators, right)
	}
	if len(data.Ops) == 0 {
		return left, true
	}
	data.Left = left
	return p.b.Exprs.NewCompare(p.spanFrom(start), data), true
}

// compareOp consumes one comparison operator, including the two-word
// forms `not in` and `is not`.
func (p *Parser) compareOp() (ast.CmpOp, source.Span, bool) {
	tok := p.peek()
	var op ast.CmpOp
	switch tok.Kind {
	case token.EqEq:
		op = ast.CmpEq
	case token.BangEq:
		op = ast.CmpNotEq
	case token.Lt:
		op = ast.CmpLt
	case token.LtEq:
		op = ast.CmpLtE
	case token.Gt:
		op = ast.CmpGt
	case token.GtEq:
		op = ast.CmpGtE
	case token.KwIn:
		op = ast.CmpIn
	case token.KwIs:
		p.advance()
		if p.at(token.KwNot) {
			last := p.advance()
			return ast.CmpIsNot, tok.Span.Cover(last.Span), true
		}
		return ast.CmpIs, tok.Span, true
	case token.KwNot:
		if p.peekAt(1).Kind != token.KwIn {
			return 0, source.Span{}, false
		}
		p.advance()
		last := p.advance()
		return ast.CmpNotIn, tok.Span.Cover(last.Span), true
	default:
		return 0, source.Span{}, false
	}
	p.advance()
	return op, tok.Span, true
}

// binaryPrec gives the binding power of arithmetic and bitwise operators;
// 0 means "not a binary operator". ** is handled by parsePower.
func binaryPrec(k token.Kind) (int, ast.BinOp) {
	switch k {
	case token.Pipe:
		return 1, ast.BinBitOr
	case token.Caret:
		return 2, ast.BinBitXor
	case token.Amp:
		return 3, ast.BinBitAnd
	case token.Shl:
		return 4, ast.BinLShift
	case token.Shr:
		return 4, ast.BinRShift
	case token.Plus:
		return 5, ast.BinAdd
	case token.Minus:
		return 5, ast.BinSub
	case token.Star:
		return 6, ast.BinMul
	case token.At:
		return 6, ast.BinMatMul
	case token.Slash:
		return 6, ast.BinDiv
	case token.SlashSlash:
		return 6, ast.BinFloorDiv
	case token.Percent:
		return 6, ast.BinMod
	}
	return 0, 0
}

func (p *Parser) parseBitOr() (ast.ExprID, bool) {
	return p.parseBinary(1)
}

// parseBinary is precedence climbing over the left-associative operators.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	start := p.peek().Span
	left, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, op := binaryPrec(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			break
		}
		opTok := p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		left = p.b.Exprs.NewBinary(p.spanFrom(start), ast.BinaryData{
			Left: left, Op: op, OpSpan: opTok.Span, Right: right,
		})
	}
	return left, true
}

func (p *Parser) parseFactor() (ast.ExprID, bool) {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Plus:
		op = ast.UnaryPos
	case token.Tilde:
		op = ast.UnaryInvert
	default:
		return p.parsePower()
	}
	start := p.advance().Span
	operand, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewUnary(p.spanFrom(start), op, operand), true
}

// parsePower: `await? primary ['**' factor]`; ** is right-associative and
// binds tighter than a unary operator on its left.
func (p *Parser) parsePower() (ast.ExprID, bool) {
	start := p.peek().Span
	base, ok := p.parseAwait()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.StarStar) {
		return base, true
	}
	opTok := p.advance()
	exp, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewBinary(p.spanFrom(start), ast.BinaryData{
		Left: base, Op: ast.BinPow, OpSpan: opTok.Span, Right: exp,
	}), true
}

func (p *Parser) parseAwait() (ast.ExprID, bool) {
	if !p.at(token.KwAwait) {
		return p.parsePrimary()
	}
	start := p.advance().Span
	value, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewValue(ast.ExprAwait, p.spanFrom(start), value), true
}

// parsePrimary parses an atom followed by any number of `.name`, call and
// subscript trailers.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	start := p.peek().Span
	expr, ok := p.parseAtom()
	if !ok {
		return ast.NoExprID, false
	}
	// a parenthesized atom may have a narrower span than its tokens
	start = start.Cover(p.exprSpan(expr))
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected attribute name")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.b.Exprs.NewAttribute(p.spanFrom(start), expr, ast.Ident{Name: name.Text, Span: name.Span})
		case token.LParen:
			p.advance()
			args, keywords, ok := p.parseArguments()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.RParen, diag.SynExpectClosing, "expected ')' to close call"); !ok {
				return ast.NoExprID, false
			}
			expr = p.b.Exprs.NewCall(p.spanFrom(start), ast.CallData{Func: expr, Args: args, Keywords: keywords})
		case token.LBracket:
			p.advance()
			index, ok := p.parseSubscriptIndex()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.RBracket, diag.SynExpectClosing, "expected ']'"); !ok {
				return ast.NoExprID, false
			}
			expr = p.b.Exprs.NewSubscript(p.spanFrom(start), expr, index)
		default:
			return expr, true
		}
	}
}

// parseArguments parses call arguments up to (not including) ')'.
func (p *Parser) parseArguments() ([]ast.ExprID, []ast.Keyword, bool) {
	var args []ast.ExprID
	var keywords []ast.Keyword
	for !p.at(token.RParen) {
		start := p.peek().Span
		switch {
		case p.at(token.Star):
			arg, ok := p.parseStarred()
			if !ok {
				return nil, nil, false
			}
			args = append(args, arg)
		case p.at(token.StarStar):
			p.advance()
			value, ok := p.parseTest()
			if !ok {
				return nil, nil, false
			}
			keywords = append(keywords, ast.Keyword{Value: value, Span: p.spanFrom(start)})
		case p.at(token.Name) && p.peekAt(1).Kind == token.Assign:
			name := p.advance()
			p.advance() // =
			value, ok := p.parseTest()
			if !ok {
				return nil, nil, false
			}
			keywords = append(keywords, ast.Keyword{Name: name.Text, Value: value, Span: p.spanFrom(start)})
		default:
			arg, ok := p.parseNamedExpr()
			if !ok {
				return nil, nil, false
			}
			if p.atCompFor() {
				// f(x for x in y)
				if arg, ok = p.parseComprehension(ast.ExprGenerator, start, arg, ast.NoExprID); !ok {
					return nil, nil, false
				}
			}
			args = append(args, arg)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return args, keywords, true
}

func (p *Parser) parseSubscriptIndex() (ast.ExprID, bool) {
	start := p.peek().Span
	first, ok := p.parseSliceItem()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	elts := []ast.ExprID{first}
	for p.eat(token.Comma) {
		if p.at(token.RBracket) {
			break
		}
		next, ok := p.parseSliceItem()
		if !ok {
			return ast.NoExprID, false
		}
		elts = append(elts, next)
	}
	return p.b.Exprs.NewSeq(ast.ExprTuple, p.spanFrom(start), elts, false), true
}

func (p *Parser) parseSliceItem() (ast.ExprID, bool) {
	start := p.peek().Span
	var data ast.SliceData
	var ok bool
	if !p.at(token.Colon) {
		if data.Lower, ok = p.parseStarNamed(); !ok {
			return ast.NoExprID, false
		}
		if !p.at(token.Colon) {
			return data.Lower, true
		}
	}
	p.advance() // :
	if !p.atOr(token.Colon, token.Comma, token.RBracket) {
		if data.Upper, ok = p.parseTest(); !ok {
			return ast.NoExprID, false
		}
	}
	if p.eat(token.Colon) && !p.atOr(token.Comma, token.RBracket) {
		if data.Step, ok = p.parseTest(); !ok {
			return ast.NoExprID, false
		}
	}
	return p.b.Exprs.NewSlice(p.spanFrom(start), data), true
}
