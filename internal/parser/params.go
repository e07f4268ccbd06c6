package parser

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/token"
)

// parseParams parses a parameter list up to (not including) close. Lambda
// parameters pass annotations=false.
func (p *Parser) parseParams(close token.Kind, annotations bool) ([]ast.Param, bool) {
	var params []ast.Param
	kind := ast.ParamRegular
	seenDefault := false
	seenSlash, seenStar, seenKwArgs := false, false, false

	for !p.at(close) {
		if seenKwArgs {
			p.err(diag.SynBadParameters, "parameter after '**' parameter")
			return nil, false
		}
		switch p.peek().Kind {
		case token.Slash:
			if seenSlash || seenStar || len(params) == 0 {
				p.err(diag.SynBadParameters, "'/' must follow at least one positional parameter")
				return nil, false
			}
			p.advance()
			seenSlash = true
			for i := range params {
				params[i].Kind = ast.ParamPositionalOnly
			}
		case token.Star:
			if seenStar {
				p.err(diag.SynBadParameters, "'*' may appear only once")
				return nil, false
			}
			p.advance()
			seenStar = true
			kind = ast.ParamKeywordOnly
			if p.at(token.Name) {
				param, ok := p.parseParam(ast.ParamVarArgs, annotations, false)
				if !ok {
					return nil, false
				}
				params = append(params, param)
			} else if !p.at(token.Comma) {
				p.err(diag.SynBadParameters, "named arguments must follow bare '*'")
				return nil, false
			}
		case token.StarStar:
			p.advance()
			param, ok := p.parseParam(ast.ParamKwArgs, annotations, false)
			if !ok {
				return nil, false
			}
			params = append(params, param)
			seenKwArgs = true
		default:
			param, ok := p.parseParam(kind, annotations, true)
			if !ok {
				return nil, false
			}
			if param.Default.IsValid() {
				seenDefault = true
			} else if seenDefault && kind != ast.ParamKeywordOnly {
				p.errAt(diag.SynBadParameters, param.Span, "non-default argument follows default argument")
				return nil, false
			}
			params = append(params, param)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return params, true
}

func (p *Parser) parseParam(kind ast.ParamKind, annotations, defaults bool) (ast.Param, bool) {
	name, ok := p.expect(token.Name, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return ast.Param{}, false
	}
	param := ast.Param{Ident: ast.Ident{Name: name.Text, Span: name.Span}, Kind: kind}
	if annotations && p.eat(token.Colon) {
		if param.Annotation, ok = p.parseTest(); !ok {
			return ast.Param{}, false
		}
	}
	if defaults && p.eat(token.Assign) {
		if param.Default, ok = p.parseTest(); !ok {
			return ast.Param{}, false
		}
	}
	return param, true
}
