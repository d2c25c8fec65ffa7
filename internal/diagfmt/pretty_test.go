package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ddl/internal/diag"
	"ddl/internal/source"
)

func oneError(t *testing.T, path, content string, start, end uint32) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.EvlOverflow, source.Span{File: id, Start: start, End: end}, "integer overflow"))
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := oneError(t, "unit.ddl", "sint8 a = 100 + 100;\n", 10, 19)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "unit.ddl:1:11: ERROR EVL5001: integer overflow\n" +
		" 1 | sint8 a = 100 + 100;\n" +
		"   | " + strings.Repeat(" ", 10) + "^~~~~~~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.ddl", []byte("int a = b;\nint b = a;\nint c = 1;\n"))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.EvlRecursive, source.Span{File: id, Start: 15, End: 16}, "recursive constant: #b").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "#a is declared here")
	bag.Add(d)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"unit.ddl:2:5: ERROR EVL5014: recursive constant: #b",
		" 1 | int a = b;",
		" 2 | int b = a;",
		" 3 | int c = 1;",
		"note: unit.ddl:1:5: #a is declared here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyGlobalAndDropped(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewGlobal(diag.EngTooManyFiles, "too many open files"))
	bag.Add(diag.NewGlobal(diag.EngTooManyFiles, "too many open files"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, nil, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "ERROR ENG6001: too many open files\ntoo many errors: 1 more diagnostics were dropped\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathModes(t *testing.T) {
	for _, tc := range []struct {
		name string
		path string
		opts PrettyOpts
		want string
	}{
		{"relative", "/home/user/project/src/unit.ddl", PrettyOpts{PathMode: PathModeRelative, BaseDir: "/home/user/project"}, "src/unit.ddl:1:1"},
		{"basename", "/home/user/project/src/unit.ddl", PrettyOpts{PathMode: PathModeBasename}, "unit.ddl:1:1"},
		{"auto short", "unit.ddl", PrettyOpts{}, "unit.ddl:1:1"},
		{"auto long", "/very/long/absolute/path/to/some/nested/directory/unit.ddl", PrettyOpts{}, "unit.ddl:1:1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bag, fs := oneError(t, tc.path, "int a;\n", 0, 3)
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, tc.opts); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tc.want+": ") {
				t.Errorf("got %q, want prefix %q", buf.String(), tc.want)
			}
		})
	}
}

func TestCaretWidth(t *testing.T) {
	if got := indent("\tab"); got != "\t  " {
		t.Errorf("indent tab = %q", got)
	}
	if got := indent("日x"); got != "   " {
		t.Errorf("indent wide = %q", got)
	}
	if got := underline("日本x", 0, len("日本")); got != "^~~~" {
		t.Errorf("underline = %q", got)
	}
	if got := underline("abc", 3, 3); got != "^" {
		t.Errorf("empty underline = %q", got)
	}
}

func TestColorMode(t *testing.T) {
	for _, s := range []string{"auto", "on", "off"} {
		m, err := ParseColorMode(s)
		if err != nil || m.String() != s {
			t.Errorf("ParseColorMode(%q) = %v, %v", s, m, err)
		}
	}
	if _, err := ParseColorMode("always"); err == nil {
		t.Error("ParseColorMode accepted an unknown mode")
	}
	if !ColorOn.Enabled(nil) || ColorOff.Enabled(nil) || ColorAuto.Enabled(nil) {
		t.Error("Enabled ignores the mode")
	}
}

func TestJSON(t *testing.T) {
	bag, fs := oneError(t, "unit.ddl", "sint8 a = 100 + 100;\n", 10, 19)
	bag.Add(diag.NewGlobal(diag.EngTooManyIncludes, "too many included files"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "EVL5001" || first.Location == nil || first.Location.StartCol != 11 || first.Location.EndCol != 20 {
		t.Errorf("first = %+v %+v", first, first.Location)
	}
	if second := out.Diagnostics[1]; second.Location != nil || second.Severity != "error" {
		t.Errorf("global diagnostic = %+v", second)
	}

	if got := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1}); got.Count != 1 {
		t.Errorf("Max: count = %d", got.Count)
	}
}
