package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("pkg/mod.py", []byte("x = 1\n"), 0)
	id2 := fs.Add("pkg/mod.py", []byte("x = 2\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("pkg/./mod.py")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != "x = 1\n" {
		t.Errorf("old version lost: %q", fs.Get(id1).Content)
	}
}

func TestPositionMapping(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.py", []byte("ab\ncd\n\nef")))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline belongs to its own line
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}}, // EOF
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLineAndLines(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.py", []byte("one\ntwo\nthree")))

	if f.GetLine(2) != "two" || f.GetLine(3) != "three" || f.GetLine(4) != "" {
		t.Fatalf("GetLine mismatch: %q %q %q", f.GetLine(2), f.GetLine(3), f.GetLine(4))
	}
	if f.LineCount() != 3 {
		t.Fatalf("LineCount = %d", f.LineCount())
	}
	got := f.Lines(2, 5)
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("Lines(2,5) = %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.py")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa = 1\r\nb = 2\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a = 1\nb = 2\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatal("cover must contain its inputs")
	}
}
