package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ddl/internal/diag"
	"ddl/internal/trace"
)

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextEngine(t *testing.T) {
	e := &TextEngine{Text: "T x = 200; int a = 1 + 2;", Pretext: "type T = uint8;"}
	res := e.Process(context.Background())
	if !res.OK() {
		t.Fatalf("Process failed: %v", res.Bag.Lines())
	}
	want := "uint8 #x = (uint8) 200\nsint #a = (sint) 3\n"
	if res.Printed != want {
		t.Errorf("Printed = %q, want %q", res.Printed, want)
	}
	if len(res.Files) != 2 {
		t.Errorf("files = %d, want 2", len(res.Files))
	}
}

func TestTextEngineErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		want diag.Code
	}{
		{"include <a.ddl>", diag.SynBadInclude},
		{"sint8 a = 200;", diag.EvlRange},
		{"int a = b;", diag.NamUndefinedName},
	} {
		t.Run(tc.text, func(t *testing.T) {
			res := (&TextEngine{Text: tc.text}).Process(context.Background())
			if res.OK() || res.Eval != nil {
				t.Fatal("Process succeeded")
			}
			if !hasCode(res.Bag, tc.want) {
				t.Errorf("diagnostics %v lack %s", res.Bag.Lines(), tc.want.ID())
			}
		})
	}
}

func TestResultDiagnostics(t *testing.T) {
	res := (&TextEngine{Text: "int a = 1;\nint b = c;"}).Process(context.Background())
	want := "error NAM3006 <text>:2:9 undefined name: c"
	if got := res.Diagnostics(false); got != want {
		t.Errorf("Diagnostics = %q, want %q", got, want)
	}
	if got := (&TextEngine{Text: "int a = 1;"}).Process(context.Background()).Diagnostics(true); got != "" {
		t.Errorf("clean unit renders %q", got)
	}
}

func TestObserverSeesPhases(t *testing.T) {
	var events []string
	obs := func(ev PhaseEvent) {
		if ev.Status == PhaseEnd {
			events = append(events, ev.Name+" end")
			return
		}
		events = append(events, ev.Name)
	}
	(&TextEngine{Text: "int a = 1;", Options: Options{Observer: obs}}).Process(context.Background())
	want := []string{"parse", "parse end", "complete", "complete end", "eval", "eval end"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	events = nil
	(&TextEngine{Text: "int a = ;", Options: Options{Observer: obs}}).Process(context.Background())
	if !slices.Equal(events, []string{"parse", "parse end"}) {
		t.Errorf("events after a parse error = %v", events)
	}
}

func TestResultTimings(t *testing.T) {
	res := (&TextEngine{Text: "int a = 1;"}).Process(context.Background())
	if len(res.Timings.Phases) != 3 {
		t.Fatalf("timings = %+v", res.Timings)
	}
	if _, failed := res.Timings.Failed(); failed {
		t.Errorf("unexpected failed phase in %+v", res.Timings)
	}

	res = (&TextEngine{Text: "int a = b;"}).Process(context.Background())
	if name, failed := res.Timings.Failed(); !failed || name != "complete" {
		t.Errorf("Failed() = %q %v", name, failed)
	}
}

func TestUnitSpansCarryPath(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	(&TextEngine{Text: "int a = b + 1; int b = 2;"}).Process(ctx)

	var names []string
	for _, ev := range ring.Unit(textName) {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	for _, want := range []string{"unit", "parse", "eval"} {
		if !slices.Contains(names, want) {
			t.Errorf("spans of %s = %v, missing %q", textName, names, want)
		}
	}
}

func TestFileEngineIncludes(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.ddl", "include <sub/defs.ddl>\ninclude <sub/defs.ddl>\nint b = a + 1;\n")
	writeFile(t, dir, "sub/defs.ddl", "include <more.ddl>\nint a = c + 40;\n")
	writeFile(t, dir, "sub/more.ddl", "int c = 1;\n")

	res := NewFileEngine(Options{}).Process(context.Background(), main, "")
	if !res.OK() {
		t.Fatalf("Process failed: %v", res.Bag.Lines())
	}
	want := "sint #c = (sint) 1\nsint #a = (sint) 41\nsint #b = (sint) 42\n"
	if res.Printed != want {
		t.Errorf("Printed = %q, want %q", res.Printed, want)
	}
	if len(res.Files) != 3 {
		t.Errorf("files = %d, want 3", len(res.Files))
	}
}

func TestFileEngineLimits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ddl", "int a = 1;\n")
	writeFile(t, dir, "b.ddl", "int b = 2;\n")
	two := writeFile(t, dir, "two.ddl", "include <a.ddl>\ninclude <b.ddl>\n")
	missing := writeFile(t, dir, "missing.ddl", "include <nope.ddl>\n")

	for _, tc := range []struct {
		name string
		path string
		opts Options
		want diag.Code
	}{
		{"includes", two, Options{MaxIncludes: 1}, diag.EngTooManyIncludes},
		{"files", two, Options{MaxFiles: 2}, diag.EngTooManyFiles},
		{"length", two, Options{MaxFileLen: 8}, diag.EngFileTooLong},
		{"missing include", missing, Options{}, diag.EngFileRead},
		{"missing root", filepath.Join(dir, "absent.ddl"), Options{}, diag.EngFileRead},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := NewFileEngine(tc.opts).Process(context.Background(), tc.path, "")
			if res.OK() {
				t.Fatal("Process succeeded")
			}
			if !hasCode(res.Bag, tc.want) {
				t.Errorf("diagnostics %v lack %s", res.Bag.Lines(), tc.want.ID())
			}
		})
	}
}

func TestFileEngineKeepsFilesUntilPurge(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ddl", "int a = 1;\n")
	e := NewFileEngine(Options{MaxFiles: 1})
	for range 2 {
		if res := e.Process(context.Background(), path, ""); !res.OK() {
			t.Fatalf("Process failed: %v", res.Bag.Lines())
		}
	}
	other := writeFile(t, dir, "b.ddl", "int b = 1;\n")
	if res := e.Process(context.Background(), other, ""); !hasCode(res.Bag, diag.EngTooManyFiles) {
		t.Fatalf("second file accepted: %v", res.Bag.Lines())
	}
	e.Purge()
	if res := e.Process(context.Background(), other, ""); !res.OK() {
		t.Fatalf("Process after Purge failed: %v", res.Bag.Lines())
	}
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.ddl", "int a = 1;")
	res, err := Tokenize(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, tok := range res.Tokens {
		if s := strings.TrimSpace(tok.Text); s != "" {
			texts = append(texts, s)
		}
	}
	if want := []string{"int", "a", "=", "1", ";"}; !slices.Equal(texts, want) {
		t.Errorf("tokens = %v, want %v", texts, want)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("diagnostics: %v", res.Bag.Lines())
	}
}
