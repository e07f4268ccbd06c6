package lexer

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

// Lexer turns Python source into tokens on demand. Indentation is tracked
// with a stack; Indent/Dedent/Newline tokens are queued and handed out
// before the next scanned token.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
	queue  []token.Token

	indents       []uint32 // indents[0] == 0
	depth         int      // bracket nesting, never negative
	atLineStart   bool
	lineHasTokens bool
	done          bool
	errors        int
}

func New(file *source.File, opts Options) *Lexer {
	if opts.TabSize == 0 {
		opts.TabSize = 8
	}
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		indents:     []uint32{0},
		atLineStart: true,
	}
}

// Tokenize lexes the whole file. The result always ends with EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Errors returns how many lexical errors were reported so far.
func (lx *Lexer) Errors() int {
	return lx.errors
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if tok, ok := lx.dequeue(); ok {
		return tok
	}
	if lx.done {
		return lx.makeAt(token.EOF, lx.cursor.Off, lx.cursor.Off)
	}

	for {
		if lx.atLineStart && lx.depth == 0 {
			lx.atLineStart = false
			lx.measureIndent()
			if tok, ok := lx.dequeue(); ok {
				return tok
			}
		}

		lx.skipBlanks()
		if lx.cursor.EOF() {
			lx.finish()
			tok, _ := lx.dequeue()
			return tok
		}

		switch ch := lx.cursor.Peek(); {
		case ch == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.depth > 0 {
				continue
			}
			lx.atLineStart = true
			if !lx.lineHasTokens {
				continue // blank or comment-only line
			}
			lx.lineHasTokens = false
			return lx.make(token.Newline, start)

		case ch == '\\':
			if lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			tok := lx.make(token.Invalid, start)
			lx.report(diag.LexBadLineContinuation, tok.Span, "unexpected character after line continuation character")
			return tok

		case ch == '#':
			return lx.scanComment()

		default:
			tok := lx.scanToken()
			lx.lineHasTokens = true
			return tok
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case lx.stringPrefixLen() >= 0:
		return lx.scanString()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) skipBlanks() {
	for {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\f':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	return lx.make(token.Comment, start)
}

// finish queues the end-of-file sequence: a closing Newline if the last
// line had tokens, one Dedent per open block, then EOF.
func (lx *Lexer) finish() {
	lx.done = true
	end := lx.cursor.Off
	if lx.depth > 0 {
		lx.report(diag.LexUnclosedBracket, source.Span{File: lx.file.ID, Start: end, End: end}, "unexpected EOF: unclosed bracket")
	}
	if lx.lineHasTokens {
		lx.queue = append(lx.queue, lx.makeAt(token.Newline, end, end))
		lx.lineHasTokens = false
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.queue = append(lx.queue, lx.makeAt(token.Dedent, end, end))
	}
	lx.queue = append(lx.queue, lx.makeAt(token.EOF, end, end))
}

func (lx *Lexer) dequeue() (token.Token, bool) {
	if len(lx.queue) == 0 {
		return token.Token{}, false
	}
	tok := lx.queue[0]
	lx.queue = lx.queue[1:]
	return tok, true
}

func (lx *Lexer) make(kind token.Kind, start Mark) token.Token {
	return lx.makeAt(kind, uint32(start), lx.cursor.Off)
}

func (lx *Lexer) makeAt(kind token.Kind, start, end uint32) token.Token {
	sp := source.Span{File: lx.file.ID, Start: start, End: end}
	return token.Token{
		Kind:  kind,
		Span:  sp,
		Start: lx.file.Position(start),
		End:   lx.file.Position(end),
		Text:  string(lx.file.Content[start:end]),
	}
}
