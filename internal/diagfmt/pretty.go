package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

const defaultContext = 5

type palette struct {
	path, err, warn, info, code, caret, gutter, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:   mk(color.Bold),
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		code:   mk(color.FgMagenta, color.Bold),
		caret:  mk(color.FgRed, color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan, color.Bold),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строки исходника начиная со строки диагностики, с подчёркиванием
// ^~~~ под первой строкой, затем notes и fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	context := opts.Context
	if context == 0 {
		context = defaultContext
	}
	for _, d := range bag.Items() {
		file := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			p.path.Sprint(formatPath(file, fs, opts.PathMode)), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)

		if context > 0 && len(file.Content) > 0 {
			writeSnippet(w, p, file, start, end, context)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				pos := fs.Range(n.Span).Start
				fmt.Fprintf(w, "  %s %d:%d: %s\n", p.note.Sprint("note:"), pos.Line, pos.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  %s %s (%s)\n", p.fix.Sprint("fix:"), f.Title, f.Applicability)
				if !opts.ShowPreview {
					continue
				}
				for _, e := range f.Edits {
					preview, err := buildFixEditPreview(fs, e)
					if err != nil {
						continue
					}
					for _, l := range preview.before {
						fmt.Fprintf(w, "    %s %s\n", p.err.Sprint("-"), l)
					}
					for _, l := range preview.after {
						fmt.Fprintf(w, "    %s %s\n", p.fix.Sprint("+"), l)
					}
				}
			}
		}
	}
}

// writeSnippet prints up to count lines from the diagnostic row on and
// underlines the primary span on its first row.
func writeSnippet(w io.Writer, p palette, file *source.File, start, end source.LineCol, count int) {
	n, err := safecast.Conv[uint32](count)
	if err != nil {
		return
	}
	lines := file.Lines(start.Line, n)
	if len(lines) == 0 {
		return
	}
	first := int(start.Line)
	width := len(strconv.Itoa(first + len(lines) - 1))
	for i, text := range lines {
		row := first + i
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", width, row), p.gutter.Sprint("|"), expandTabs(text))
		if i != 0 {
			continue
		}
		from := int(start.Col) - 1
		to := len(text)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(max(from, 0), len(text))
		to = min(max(to, from+1), len(text)+1)
		pad := runewidth.StringWidth(expandTabs(text[:from]))
		marks := max(runewidth.StringWidth(expandTabs(text[from:min(to, len(text))])), 1)
		fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", width), p.gutter.Sprint("|"),
			strings.Repeat(" ", pad), p.caret.Sprint("^"+strings.Repeat("~", marks-1)))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Short prints the one-line form of diag.FormatShortDiagnostics.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return
	}
	fmt.Fprintln(w, out)
}
