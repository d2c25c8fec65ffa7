package eval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/parser"
	"ddl/internal/sema"
	"ddl/internal/source"
)

type run struct {
	unit *sema.Unit
	bag  *diag.Bag
	res  *Result
	ok   bool
}

// process parses, completes and evaluates input. Parse and semantic errors
// fail the test.
func process(t *testing.T, input string, opts Options) *run {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.ddl", []byte(input))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	if res := parser.ParseFile(fs.Get(id), b, b.Root, parser.Options{Reporter: rep}); res.Errors > 0 {
		t.Fatalf("parse errors: %s", summary(bag))
	}
	u, ok := sema.Complete(context.Background(), b, rep)
	if !ok {
		t.Fatalf("complete failed: %s", summary(bag))
	}
	res, ok := Process(context.Background(), u, rep, opts)
	if ok != (res != nil) || ok == bag.HasErrors() {
		t.Fatalf("Process = %v with %s", ok, summary(bag))
	}
	return &run{unit: u, bag: bag, res: res, ok: ok}
}

func mustEval(t *testing.T, input string) *run {
	t.Helper()
	r := process(t, input, Options{})
	if !r.ok {
		t.Fatalf("evaluation failed: %s", summary(r.bag))
	}
	return r
}

func summary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		lines = append(lines, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(lines, "; ")
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

// value returns the result of the constant with the qualified name.
func (r *run) value(t *testing.T, qualified string) Value {
	t.Helper()
	b := r.unit.AST
	for i, c := range b.Consts.Slice() {
		if b.QualifiedName(c.Parent, c.Name.Text) == qualified {
			return r.res.Const(ast.ConstID(i + 1)).Value
		}
	}
	t.Fatalf("constant %s not found", qualified)
	return Value{}
}

func (r *run) line(t *testing.T, qualified string) string {
	t.Helper()
	b := r.unit.AST
	for i, c := range b.Consts.Slice() {
		if b.QualifiedName(c.Parent, c.Name.Text) == qualified {
			return r.res.ConstString(r.res.Const(ast.ConstID(i + 1)))
		}
	}
	t.Fatalf("constant %s not found", qualified)
	return ""
}

func decimals(v Value) []string {
	out := make([]string, 0, len(v.Block))
	for _, item := range v.Block {
		switch item.Kind {
		case VKInt:
			out = append(out, item.Decimal())
		case VKText:
			out = append(out, item.Text)
		default:
			out = append(out, item.Kind.String())
		}
	}
	return out
}
