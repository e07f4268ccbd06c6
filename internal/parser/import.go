package parser

import (
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// parseImport: `import a.b [as c], d`.
func (p *Parser) parseImport() (ast.StmtID, bool) {
	start := p.advance().Span
	var names []ast.Alias
	for {
		aStart := p.peek().Span
		dotted, ok := p.parseDottedName()
		if !ok {
			return ast.NoStmtID, false
		}
		alias := ast.Alias{Name: dotted}
		if p.eat(token.KwAs) {
			tok, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected name after 'as'")
			if !ok {
				return ast.NoStmtID, false
			}
			alias.AsName = tok.Text
		}
		alias.Span = p.spanFrom(aStart)
		names = append(names, alias)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.b.Stmts.NewImport(ast.StmtImport, p.spanFrom(start), ast.ImportData{Names: names}), true
}

// parseFromImport: `from [.]*module import (a [as b], ...) | *`.
func (p *Parser) parseFromImport() (ast.StmtID, bool) {
	start := p.advance().Span
	data := ast.ImportData{}
	for p.atOr(token.Dot, token.Ellipsis) {
		if p.advance().Kind == token.Ellipsis {
			data.Level += 3
		} else {
			data.Level++
		}
	}
	if !p.at(token.KwImport) {
		module, ok := p.parseDottedName()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Module = module
	} else if data.Level == 0 {
		p.err(diag.SynBadImport, "expected module name")
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwImport, diag.SynBadImport, "expected 'import'"); !ok {
		return ast.NoStmtID, false
	}

	if p.at(token.Star) {
		tok := p.advance()
		data.Names = []ast.Alias{{Name: "*", Span: tok.Span}}
		return p.b.Stmts.NewImport(ast.StmtImportFrom, p.spanFrom(start), data), true
	}

	parens := p.eat(token.LParen)
	for {
		tok, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected name to import")
		if !ok {
			return ast.NoStmtID, false
		}
		alias := ast.Alias{Name: tok.Text}
		if p.eat(token.KwAs) {
			as, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected name after 'as'")
			if !ok {
				return ast.NoStmtID, false
			}
			alias.AsName = as.Text
		}
		alias.Span = p.spanFrom(tok.Span)
		data.Names = append(data.Names, alias)
		if !p.eat(token.Comma) {
			break
		}
		if parens && p.at(token.RParen) {
			break
		}
	}
	if parens {
		if _, ok := p.expect(token.RParen, diag.SynExpectClosing, "expected ')'"); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.b.Stmts.NewImport(ast.StmtImportFrom, p.spanFrom(start), data), true
}

func (p *Parser) parseDottedName() (string, bool) {
	var parts []string
	for {
		tok, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected module name")
		if !ok {
			return "", false
		}
		parts = append(parts, tok.Text)
		if !p.eat(token.Dot) {
			break
		}
	}
	return strings.Join(parts, "."), true
}
