package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLineBreakKinds(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mixed.ddl", []byte("a\nb\rc\r\nd"))
	f := fs.Get(id)

	want := []uint32{0, 2, 4, 7}
	if len(f.LineStarts) != len(want) {
		t.Fatalf("LineStarts = %v, want %v", f.LineStarts, want)
	}
	for i := range want {
		if f.LineStarts[i] != want[i] {
			t.Fatalf("LineStarts = %v, want %v", f.LineStarts, want)
		}
	}

	for _, tc := range []struct {
		off  uint32
		want TextPos
	}{
		{0, TextPos{1, 1}},
		{2, TextPos{2, 1}},
		{4, TextPos{3, 1}},
		{5, TextPos{3, 2}},
		{7, TextPos{4, 1}},
	} {
		if got := f.Pos(tc.off); got != tc.want {
			t.Errorf("Pos(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}

	if got := f.GetLine(3); got != "c" {
		t.Errorf("GetLine(3) = %q, want %q", got, "c")
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
}

func TestResolveSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.ddl", []byte("int a = 1;\nint b = a;"))
	start, end := fs.Resolve(Span{File: id, Start: 15, End: 16})
	if start != (TextPos{2, 5}) || end != (TextPos{2, 6}) {
		t.Errorf("Resolve = %+v..%+v, want 2:5..2:6", start, end)
	}
}

func TestLoadCapAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ddl")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFint a = 1;"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "int a = 1;" || f.Flags&FileHadBOM == 0 {
		t.Errorf("content %q flags %b", f.Content, f.Flags)
	}
	if got, ok := fs.GetByPath(path); !ok || got.ID != id {
		t.Errorf("GetByPath did not find %s", path)
	}

	if _, err := fs.Load(path, 4); !errors.Is(err, ErrFileTooLong) {
		t.Errorf("Load with cap: err = %v, want ErrFileTooLong", err)
	}
}

func TestJoinInclude(t *testing.T) {
	if got := JoinInclude("dir/sub", "x.ddl"); got != "dir/sub/x.ddl" {
		t.Errorf("got %q", got)
	}
	if got := JoinInclude("", "x.ddl"); got != "x.ddl" {
		t.Errorf("got %q", got)
	}
	if got := JoinInclude("dir", "../y.ddl"); got != "y.ddl" {
		t.Errorf("got %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}
