package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/lexer"
	"pyrite/internal/logical"
	"pyrite/internal/source"
)

func noneComparison(fs *source.FileSet, src string) *diag.Bag {
	id := fs.AddVirtual("/home/user/project/pkg/mod.py", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.StyleNoneComparison, file.Span(3, 12), "Comparison to `None` should be `cond is None`").
		WithNote(file.Span(0, 13), "comparison chain").
		WithFix(diag.Fix{
			Title:         "Replace `==` with `is`",
			Applicability: diag.FixAlwaysSafe,
			Edits:         []diag.TextEdit{{Span: file.Span(5, 7), NewText: "is", OldText: "=="}},
		}))
	return bag
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	bag := noneComparison(fs, "if x == None:\n    pass\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})
	want := "pkg/mod.py:1:4: WARNING E711: Comparison to `None` should be `cond is None`\n" +
		" 1 | if x == None:\n" +
		"   |    ^~~~~~~~~\n" +
		" 2 |     pass\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyContextLimit(t *testing.T) {
	fs := source.NewFileSet()
	src := strings.Repeat("x = 1\n", 12)
	file := fs.Get(fs.AddVirtual("m.py", []byte(src)))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.FlakesIfTuple, file.Span(6, 11), "msg"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	rows := strings.Count(buf.String(), " | x = 1")
	if rows != 5 {
		t.Fatalf("default context printed %d source rows:\n%s", rows, buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{Context: -1})
	if strings.Contains(buf.String(), "|") {
		t.Fatalf("negative context must hide the snippet:\n%s", buf.String())
	}
}

func TestPrettyNotesFixesAndPreview(t *testing.T) {
	fs := source.NewFileSet()
	bag := noneComparison(fs, "if x == None:\n    pass\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: -1, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	out := buf.String()
	for _, want := range []string{
		"note: 1:1: comparison chain",
		"fix: Replace `==` with `is` (safe)",
		"- if x == None:",
		"+ if x is None:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/pkg/mod.py:1:4"},
		{PathModeRelative, "pkg/mod.py:1:4"},
		{PathModeBasename, "mod.py:1:4"},
	}
	for _, tt := range tests {
		fs := source.NewFileSetWithBase("/home/user/project")
		bag := noneComparison(fs, "if x == None:\n")
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{Context: -1, PathMode: tt.mode})
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q, want prefix %q", tt.mode, buf.String(), tt.want)
		}
	}
}

func TestPrettyEmptyFile(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("gone.py", nil))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, file.Span(0, 0), "failed to read file"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if got := buf.String(); got != "gone.py:1:1: ERROR IO4001: failed to read file\n" {
		t.Fatalf("got %q", got)
	}
}

func TestJSON(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	bag := noneComparison(fs, "if x == None:\n    pass\n")

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeRelative,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "E711" || d.Severity != "WARNING" || d.Location.File != "pkg/mod.py" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 4 || d.Location.EndCol != 13 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes=%d fixes=%d", len(d.Notes), len(d.Fixes))
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "is" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "if x is None:" {
		t.Fatalf("edit = %+v", edit)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("m.py", []byte("a\nb\nc\n")))
	bag := diag.NewBag(0)
	for i := uint32(0); i < 3; i++ {
		bag.Add(diag.New(diag.SevWarning, diag.FlakesIfTuple, file.Span(i*2, i*2+1), "m"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	bag := noneComparison(fs, "if x == None:\n")
	var buf bytes.Buffer
	Short(&buf, bag, fs, false)
	if got := buf.String(); got != "warning E711 pkg/mod.py:1:4 Comparison to `None` should be `cond is None`\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTokensAndLines(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("m.py", []byte("x = (1,\n     2)\n")))
	tokens := lexer.Tokenize(file, lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens); err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if first, _, _ := strings.Cut(buf.String(), "\n"); !strings.HasPrefix(first, "  1: Name") || !strings.Contains(first, `"x" at 1:1`) {
		t.Fatalf("tokens:\n%s", buf.String())
	}

	buf.Reset()
	lines := logical.Build(file, tokens, logical.Options{})
	if err := FormatLinesPretty(&buf, lines); err != nil {
		t.Fatalf("lines: %v", err)
	}
	if got := buf.String(); got != "  1: 1:1 \"x = (1, 2)\"\n" {
		t.Fatalf("lines = %q", got)
	}

	buf.Reset()
	if err := FormatLinesJSON(&buf, lines); err != nil {
		t.Fatalf("lines json: %v", err)
	}
	var decoded []LineOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || len(decoded) != 1 || decoded[0].Tokens == 0 {
		t.Fatalf("decoded = %+v, err = %v", decoded, err)
	}
}
