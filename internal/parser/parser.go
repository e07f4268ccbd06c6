package parser

import (
	"context"
	"slices"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/token"
	"pyrite/internal/trace"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	Hints         ast.Hints
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Builder *ast.Builder
	Errors  uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token // без комментариев; последний всегда EOF
	pos      int
	file     *source.File
	b        *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего значимого съеденного токена
}

// ParseFile builds the syntax tree of file from its token sequence (as
// produced by lexer.Tokenize). Comments are skipped; a missing trailing EOF
// is tolerated.
func ParseFile(ctx context.Context, file *source.File, tokens []token.Token, opts Options) Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "parse", trace.CurrentSpan(ctx))
	defer span.End("")

	toks := make([]token.Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Kind != token.Comment {
			toks = append(toks, tok)
		}
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := file.Len()
		toks = append(toks, token.Token{
			Kind:  token.EOF,
			Span:  file.Span(end, end),
			Start: file.Position(end),
			End:   file.Position(end),
		})
	}

	hints := opts.Hints
	if hints.Exprs == 0 {
		hints.Exprs = uint(len(toks))
	}
	if hints.Stmts == 0 {
		hints.Stmts = uint(len(toks)/4 + 1)
	}
	p := Parser{
		toks:     toks,
		file:     file,
		b:        ast.NewBuilder(hints),
		opts:     opts,
		lastSpan: file.Span(0, 0),
	}
	p.parseModule()
	return Result{Builder: p.b, Errors: p.opts.CurrentErrors}
}
// parseModule: основной цикл верхнего уровня, parseStatement до EOF.
// parseModule - основной цикл верхнего уровня: пока не EOF: parseStatement.
func (p *Parser) parseModule() {
	p.b.Module.Span = p.file.Span(0, p.file.Len())
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			return
		}
		if p.eat(token.Newline) {
			continue
		}
		if p.at(token.Indent) {
			p.err(diag.SynUnexpectedToken, "unexpected indent")
			p.resync()
			continue
		}
		if p.at(token.Dedent) {
			p.advance()
			continue
		}
		stmts, ok := p.parseStatement()
		if !ok {
			p.resync()
			continue
		}
		p.b.Module.Body = append(p.b.Module.Body, stmts...)
	}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekAt looks n tokens ahead, sticking at EOF.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	switch tok.Kind {
	case token.EOF, token.Invalid, token.Newline, token.Indent, token.Dedent:
	default:
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// spanFrom covers from start to the last consumed significant token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return start.Cover(p.lastSpan)
}

// expect: ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// diagnosticSpan: для EOF и Newline указываем сразу за последним токеном
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	switch peek.Kind {
	case token.EOF, token.Newline, token.Dedent:
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// err репортует ошибку на текущем токене.
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.report(code, sp, msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors != 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

// resync skips to just past the next depth-0 Newline, or stops before EOF.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		if p.advance().Kind == token.Newline {
			return
		}
	}
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	return p.b.Exprs.Span(id)
}
