package driver

import (
	"context"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/lexer"
	"pyrite/internal/logical"
	"pyrite/internal/parser"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

// TokenizeResult backs `pyrite tokenize`.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path, collecting every lexical error.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// LinesResult backs `pyrite lines`.
type LinesResult struct {
	*TokenizeResult
	Lines []logical.Line
}

// Lines builds the logical lines of path.
func Lines(path string, opts logical.Options, maxDiagnostics int) (*LinesResult, error) {
	tr, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &LinesResult{
		TokenizeResult: tr,
		Lines:          logical.Build(tr.File, tr.Tokens, opts),
	}, nil
}

// ParseResult backs `pyrite parse`.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Bag     *diag.Bag
}

// Parse lexes and parses path. Unlike AnalyzeFile it keeps every error.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	tr, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	maxErrors := uint(0)
	if maxDiagnostics > 0 {
		maxErrors = uint(maxDiagnostics)
	}
	res := parser.ParseFile(ctx, tr.File, tr.Tokens, parser.Options{
		Reporter:  diag.BagReporter{Bag: tr.Bag},
		MaxErrors: maxErrors,
	})
	return &ParseResult{
		FileSet: tr.FileSet,
		File:    tr.File,
		Builder: res.Builder,
		Bag:     tr.Bag,
	}, nil
}
