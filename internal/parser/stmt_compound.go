package parser

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

func (p *Parser) parseCompound() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.KwIf:
		return p.parseIf(p.advance().Span, false)
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor(p.peek().Span, false)
	case token.KwTry:
		return p.parseTry()
	case token.KwWith:
		return p.parseWith(p.peek().Span, false)
	case token.KwDef:
		return p.parseFunction(p.peek().Span, nil, false)
	case token.KwClass:
		return p.parseClass(p.peek().Span, nil)
	case token.At:
		return p.parseDecorated()
	case token.KwAsync:
		start := p.advance().Span
		switch p.peek().Kind {
		case token.KwDef:
			return p.parseFunction(start, nil, true)
		case token.KwFor:
			return p.parseFor(start, true)
		case token.KwWith:
			return p.parseWith(start, true)
		}
	}
	p.err(diag.SynUnexpectedToken, "unexpected "+p.peek().Kind.String())
	return ast.NoStmtID, false
}

// parseBlock parses `: NEWLINE INDENT stmts DEDENT` or `: simple_stmts`.
func (p *Parser) parseBlock() ([]ast.StmtID, bool) {
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':'"); !ok {
		return nil, false
	}
	if !p.at(token.Newline) {
		return p.parseSimpleLine()
	}
	p.advance()
	if _, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected an indented block"); !ok {
		return nil, false
	}
	var body []ast.StmtID
	for !p.atOr(token.Dedent, token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		stmts, ok := p.parseStatement()
		if !ok {
			return nil, false
		}
		body = append(body, stmts...)
	}
	p.eat(token.Dedent)
	return body, true
}

func (p *Parser) parseIf(start source.Span, elif bool) (ast.StmtID, bool) {
	test, ok := p.parseNamedExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	var orelse []ast.StmtID
	switch p.peek().Kind {
	case token.KwElif:
		elifStart := p.advance().Span
		nested, ok := p.parseIf(elifStart, true)
		if !ok {
			return ast.NoStmtID, false
		}
		orelse = []ast.StmtID{nested}
	case token.KwElse:
		p.advance()
		if orelse, ok = p.parseBlock(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.b.Stmts.NewIf(p.spanFrom(start), ast.IfData{Test: test, Body: body, Orelse: orelse, Elif: elif}), true
}

func (p *Parser) parseElse() ([]ast.StmtID, bool) {
	if !p.eat(token.KwElse) {
		return nil, true
	}
	return p.parseBlock()
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.advance().Span
	test, ok := p.parseNamedExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	orelse, ok := p.parseElse()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewWhile(p.spanFrom(start), ast.WhileData{Test: test, Body: body, Orelse: orelse}), true
}

func (p *Parser) parseFor(start source.Span, async bool) (ast.StmtID, bool) {
	p.advance() // for
	target, ok := p.parseForTarget()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in'"); !ok {
		return ast.NoStmtID, false
	}
	iter, ok := p.parseStarTestList()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	orelse, ok := p.parseElse()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewFor(p.spanFrom(start), ast.ForData{
		Target: target, Iter: iter, Body: body, Orelse: orelse, Async: async,
	}), true
}

func (p *Parser) parseTry() (ast.StmtID, bool) {
	start := p.advance().Span
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.TryData{Body: body}
	for p.at(token.KwExcept) {
		hStart := p.advance().Span
		if p.eat(token.Star) {
			data.Star = true
		}
		h := ast.ExceptHandler{}
		if !p.at(token.Colon) {
			if h.Type, ok = p.parseTestList(); !ok {
				return ast.NoStmtID, false
			}
			if p.eat(token.KwAs) {
				tok, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected name after 'as'")
				if !ok {
					return ast.NoStmtID, false
				}
				h.Name = ast.Ident{Name: tok.Text, Span: tok.Span}
			}
		}
		if h.Body, ok = p.parseBlock(); !ok {
			return ast.NoStmtID, false
		}
		h.Span = p.spanFrom(hStart)
		data.Handlers = append(data.Handlers, h)
	}
	if data.Orelse, ok = p.parseElse(); !ok {
		return ast.NoStmtID, false
	}
	if p.eat(token.KwFinally) {
		if data.Finally, ok = p.parseBlock(); !ok {
			return ast.NoStmtID, false
		}
	}
	if len(data.Handlers) == 0 && data.Finally == nil {
		p.err(diag.SynUnexpectedToken, "expected 'except' or 'finally' block")
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewTry(p.spanFrom(start), data), true
}

func (p *Parser) parseWith(start source.Span, async bool) (ast.StmtID, bool) {
	p.advance() // with
	var items []ast.WithItem
	for {
		ctx, ok := p.parseTest()
		if !ok {
			return ast.NoStmtID, false
		}
		item := ast.WithItem{Context: ctx}
		if p.eat(token.KwAs) {
			if item.Vars, ok = p.parseTarget(); !ok {
				return ast.NoStmtID, false
			}
			if !p.checkTarget(item.Vars) {
				return ast.NoStmtID, false
			}
		}
		items = append(items, item)
		if !p.eat(token.Comma) {
			break
		}
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewWith(p.spanFrom(start), ast.WithData{Items: items, Body: body, Async: async}), true
}

func (p *Parser) parseDecorated() (ast.StmtID, bool) {
	start := p.peek().Span
	var decorators []ast.ExprID
	for p.eat(token.At) {
		dec, ok := p.parseNamedExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok = p.expect(token.Newline, diag.SynExpectNewline, "expected newline after decorator"); !ok {
			return ast.NoStmtID, false
		}
		decorators = append(decorators, dec)
	}
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFunction(start, decorators, false)
	case token.KwAsync:
		if p.peekAt(1).Kind == token.KwDef {
			p.advance()
			return p.parseFunction(start, decorators, true)
		}
	case token.KwClass:
		return p.parseClass(start, decorators)
	}
	p.err(diag.SynUnexpectedToken, "expected 'def' or 'class' after decorators")
	return ast.NoStmtID, false
}

func (p *Parser) parseFunction(start source.Span, decorators []ast.ExprID, async bool) (ast.StmtID, bool) {
	p.advance() // def
	name, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoStmtID, false
	}
	params, ok := p.parseParams(token.RParen, true)
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.RParen, diag.SynExpectClosing, "expected ')'"); !ok {
		return ast.NoStmtID, false
	}
	returns := ast.NoExprID
	if p.eat(token.Arrow) {
		if returns, ok = p.parseTest(); !ok {
			return ast.NoStmtID, false
		}
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewFunctionDef(p.spanFrom(start), ast.FunctionDefData{
		Name:       ast.Ident{Name: name.Text, Span: name.Span},
		Decorators: decorators,
		Params:     params,
		Returns:    returns,
		Body:       body,
		Async:      async,
	}), true
}

func (p *Parser) parseClass(start source.Span, decorators []ast.ExprID) (ast.StmtID, bool) {
	p.advance() // class
	name, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.ClassDefData{
		Name:       ast.Ident{Name: name.Text, Span: name.Span},
		Decorators: decorators,
	}
	if p.eat(token.LParen) {
		if data.Bases, data.Keywords, ok = p.parseArguments(); !ok {
			return ast.NoStmtID, false
		}
		if _, ok = p.expect(token.RParen, diag.SynExpectClosing, "expected ')'"); !ok {
			return ast.NoStmtID, false
		}
	}
	if data.Body, ok = p.parseBlock(); !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.NewClassDef(p.spanFrom(start), data), true
}
