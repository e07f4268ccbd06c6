package parser

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// parseStatement parses one compound statement, or one line of simple
// statements separated by ';'.
func (p *Parser) parseStatement() ([]ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.KwIf, token.KwWhile, token.KwFor, token.KwTry, token.KwWith,
		token.KwDef, token.KwClass, token.At:
		id, ok := p.parseCompound()
		if !ok {
			return nil, false
		}
		return []ast.StmtID{id}, true
	case token.KwAsync:
		switch p.peekAt(1).Kind {
		case token.KwDef, token.KwFor, token.KwWith:
			id, ok := p.parseCompound()
			if !ok {
				return nil, false
			}
			return []ast.StmtID{id}, true
		}
	}
	return p.parseSimpleLine()
}

func (p *Parser) parseSimpleLine() ([]ast.StmtID, bool) {
	var out []ast.StmtID
	for {
		id, ok := p.parseSimple()
		if !ok {
			return nil, false
		}
		out = append(out, id)
		if !p.eat(token.Semicolon) {
			break
		}
		if p.atOr(token.Newline, token.EOF) {
			break
		}
	}
	if p.eat(token.Newline) || p.at(token.EOF) {
		return out, true
	}
	p.err(diag.SynExpectNewline, "expected end of statement, got "+p.peek().Kind.String())
	return nil, false
}

func (p *Parser) parseSimple() (ast.StmtID, bool) {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.KwPass:
		p.advance()
		return p.b.Stmts.NewSimple(ast.StmtPass, start), true
	case token.KwBreak:
		p.advance()
		return p.b.Stmts.NewSimple(ast.StmtBreak, start), true
	case token.KwContinue:
		p.advance()
		return p.b.Stmts.NewSimple(ast.StmtContinue, start), true
	case token.KwReturn:
		p.advance()
		value := ast.NoExprID
		if !p.atStmtEnd() {
			var ok bool
			if value, ok = p.parseStarTestList(); !ok {
				return ast.NoStmtID, false
			}
		}
		return p.b.Stmts.NewValue(ast.StmtReturn, p.spanFrom(start), value), true
	case token.KwDel:
		p.advance()
		targets, ok := p.parseTargetList(token.Newline)
		if !ok {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.NewDelete(p.spanFrom(start), targets), true
	case token.KwRaise:
		return p.parseRaise()
	case token.KwAssert:
		p.advance()
		test, ok := p.parseTest()
		if !ok {
			return ast.NoStmtID, false
		}
		msg := ast.NoExprID
		if p.eat(token.Comma) {
			if msg, ok = p.parseTest(); !ok {
				return ast.NoStmtID, false
			}
		}
		return p.b.Stmts.NewAssert(p.spanFrom(start), test, msg), true
	case token.KwGlobal, token.KwNonlocal:
		kind := ast.StmtGlobal
		if p.advance().Kind == token.KwNonlocal {
			kind = ast.StmtNonlocal
		}
		var names []ast.Ident
		for {
			tok, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected name")
			if !ok {
				return ast.NoStmtID, false
			}
			names = append(names, ast.Ident{Name: tok.Text, Span: tok.Span})
			if !p.eat(token.Comma) {
				break
			}
		}
		return p.b.Stmts.NewNames(kind, p.spanFrom(start), names), true
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseFromImport()
	}
	return p.parseExprStatement()
}

// atStmtEnd reports whether the current simple statement has no more
// tokens.
func (p *Parser) atStmtEnd() bool {
	return p.atOr(token.Newline, token.Semicolon, token.EOF)
}

func (p *Parser) parseRaise() (ast.StmtID, bool) {
	start := p.advance().Span
	exc, cause := ast.NoExprID, ast.NoExprID
	if !p.atStmtEnd() {
		var ok bool
		if exc, ok = p.parseTest(); !ok {
			return ast.NoStmtID, false
		}
		if p.eat(token.KwFrom) {
			if cause, ok = p.parseTest(); !ok {
				return ast.NoStmtID, false
			}
		}
	}
	return p.b.Stmts.NewRaise(p.spanFrom(start), exc, cause), true
}

// parseExprStatement handles expression statements and the three
// assignment forms.
func (p *Parser) parseExprStatement() (ast.StmtID, bool) {
	start := p.peek().Span
	first, ok := p.parseStarTestListOrYield()
	if !ok {
		return ast.NoStmtID, false
	}

	switch tok := p.peek(); {
	case tok.Kind == token.Assign:
		targets := []ast.ExprID{first}
		value := ast.NoExprID
		for p.eat(token.Assign) {
			next, ok := p.parseStarTestListOrYield()
			if !ok {
				return ast.NoStmtID, false
			}
			if p.at(token.Assign) {
				targets = append(targets, next)
				continue
			}
			value = next
		}
		for _, t := range targets {
			if !p.checkTarget(t) {
				return ast.NoStmtID, false
			}
		}
		return p.b.Stmts.NewAssign(p.spanFrom(start), targets, value), true

	case tok.Kind.IsAugAssign():
		if !p.checkSingleTarget(first) {
			return ast.NoStmtID, false
		}
		op := augAssignOp(p.advance().Kind)
		value, ok := p.parseStarTestListOrYield()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.NewAugAssign(p.spanFrom(start), ast.AugAssignData{Target: first, Op: op, Value: value}), true

	case tok.Kind == token.Colon:
		if !p.checkSingleTarget(first) {
			return ast.NoStmtID, false
		}
		p.advance()
		ann, ok := p.parseTest()
		if !ok {
			return ast.NoStmtID, false
		}
		value := ast.NoExprID
		if p.eat(token.Assign) {
			if value, ok = p.parseStarTestListOrYield(); !ok {
				return ast.NoStmtID, false
			}
		}
		return p.b.Stmts.NewAnnAssign(p.spanFrom(start), ast.AnnAssignData{Target: first, Annotation: ann, Value: value}), true
	}

	return p.b.Stmts.NewValue(ast.StmtExpr, p.spanFrom(start), first), true
}

// checkTarget validates an assignment target: names, attributes,
// subscripts, starred targets and tuples/lists of those.
func (p *Parser) checkTarget(id ast.ExprID) bool {
	ex := p.b.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprName, ast.ExprAttribute, ast.ExprSubscript:
		return true
	case ast.ExprStarred:
		v, _ := p.b.Exprs.Value(id)
		return p.checkTarget(v.Value)
	case ast.ExprTuple, ast.ExprList:
		seq, _ := p.b.Exprs.Seq(id)
		for _, elt := range seq.Elts {
			if !p.checkTarget(elt) {
				return false
			}
		}
		return true
	}
	p.errAt(diag.SynInvalidTarget, ex.Span, "cannot assign to "+ex.Kind.String())
	return false
}

func (p *Parser) checkSingleTarget(id ast.ExprID) bool {
	ex := p.b.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprName, ast.ExprAttribute, ast.ExprSubscript:
		return true
	}
	p.errAt(diag.SynInvalidTarget, ex.Span, "illegal target for augmented or annotated assignment")
	return false
}

// parseTargetList parses `del` and `for` targets: comma-separated or-level
// expressions, so that `in` stays unconsumed.
func (p *Parser) parseTargetList(stop token.Kind) ([]ast.ExprID, bool) {
	var targets []ast.ExprID
	for {
		t, ok := p.parseTarget()
		if !ok {
			return nil, false
		}
		if !p.checkTarget(t) {
			return nil, false
		}
		targets = append(targets, t)
		if !p.eat(token.Comma) || p.at(stop) || p.atStmtEnd() {
			break
		}
	}
	return targets, true
}

func (p *Parser) parseTarget() (ast.ExprID, bool) {
	if p.at(token.Star) {
		start := p.advance().Span
		inner, ok := p.parseBitOr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.NewValue(ast.ExprStarred, p.spanFrom(start), inner), true
	}
	return p.parseBitOr()
}

// parseForTarget returns a single target; several comma-separated targets
// become an unparenthesized tuple.
func (p *Parser) parseForTarget() (ast.ExprID, bool) {
	start := p.peek().Span
	targets, ok := p.parseTargetList(token.KwIn)
	if !ok {
		return ast.NoExprID, false
	}
	if len(targets) == 1 && p.toks[p.pos-1].Kind != token.Comma {
		return targets[0], true
	}
	return p.b.Exprs.NewSeq(ast.ExprTuple, p.spanFrom(start), targets, false), true
}

func augAssignOp(k token.Kind) ast.BinOp {
	switch k {
	case token.PlusAssign:
		return ast.BinAdd
	case token.MinusAssign:
		return ast.BinSub
	case token.StarAssign:
		return ast.BinMul
	case token.AtAssign:
		return ast.BinMatMul
	case token.SlashAssign:
		return ast.BinDiv
	case token.SlashSlashAssign:
		return ast.BinFloorDiv
	case token.PercentAssign:
		return ast.BinMod
	case token.StarStarAssign:
		return ast.BinPow
	case token.ShlAssign:
		return ast.BinLShift
	case token.ShrAssign:
		return ast.BinRShift
	case token.PipeAssign:
		return ast.BinBitOr
	case token.CaretAssign:
		return ast.BinBitXor
	default:
		return ast.BinBitAnd
	}
}
