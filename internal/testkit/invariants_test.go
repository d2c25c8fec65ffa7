package testkit

import (
	"strings"
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/parser"
	"ddl/internal/source"
)

func parse(t *testing.T, text string) (*ast.Builder, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.ddl", []byte(text)))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(16)
	if res := parser.ParseFile(f, b, b.Root, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); res.Errors != 0 {
		t.Fatalf("parse: %v", bag.Lines())
	}
	return b, fs
}

func TestSpanInvariantsHold(t *testing.T) {
	b, fs := parse(t, `type T = uint8;
scope S {
	struct P { T x = 1; int y; };
	P p;
	int[2] a = {1, 2 * 3};
}
text s = "abc";
`)
	if err := CheckSpanInvariants(b, fs); err != nil {
		t.Fatal(err)
	}
}

func TestSpanInvariantsCatchBrokenSpan(t *testing.T) {
	b, fs := parse(t, "int a = 1;")
	b.Consts.Get(1).Span.End = 1000
	err := CheckSpanInvariants(b, fs)
	if err == nil || !strings.Contains(err.Error(), "const 1") {
		t.Fatalf("err = %v", err)
	}

	b, fs = parse(t, "int a = 1;")
	b.Consts.Get(1).Name.Span.Start = 0
	b.Consts.Get(1).Name.Span.End = 0
	if err := CheckSpanInvariants(b, fs); err == nil {
		t.Fatal("empty name span accepted")
	}
}
