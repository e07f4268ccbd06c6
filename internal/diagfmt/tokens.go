package diagfmt

import (
	"fmt"
	"io"

	"pyrite/internal/logical"
	"pyrite/internal/source"
	"pyrite/internal/token"
)

type TokenOutput struct {
	Kind  string         `json:"kind"`
	Text  string         `json:"text,omitempty"`
	Span  source.Span    `json:"span"`
	Start source.LineCol `json:"start"`
	End   source.LineCol `json:"end"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", tok.Start.Line, tok.Start.Col, tok.End.Line, tok.End.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Span:  tok.Span,
			Start: tok.Start,
			End:   tok.End,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return EncodeJSON(w, output)
}

// LineOutput is the JSON form of one logical line.
type LineOutput struct {
	Text   string         `json:"text"`
	Start  source.LineCol `json:"start"`
	Tokens int            `json:"tokens"`
}

// FormatLinesPretty prints one logical line per row with its start position.
func FormatLinesPretty(w io.Writer, lines []logical.Line) error {
	for i := range lines {
		pos := lines[i].Position()
		if _, err := fmt.Fprintf(w, "%3d: %d:%d %q\n", i+1, pos.Line, pos.Col, lines[i].Text); err != nil {
			return err
		}
	}
	return nil
}

// FormatLinesJSON prints the logical lines as a JSON array.
func FormatLinesJSON(w io.Writer, lines []logical.Line) error {
	output := make([]LineOutput, 0, len(lines))
	for i := range lines {
		output = append(output, LineOutput{
			Text:   lines[i].Text,
			Start:  lines[i].Position(),
			Tokens: len(lines[i].Tokens),
		})
	}
	return EncodeJSON(w, output)
}
