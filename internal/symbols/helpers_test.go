package symbols

import (
	"fmt"
	"strings"
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/parser"
	"ddl/internal/source"
)

type unit struct {
	b     *ast.Builder
	bag   *diag.Bag
	table *Table
	rs    *Resolver
	ok    bool
}

// link parses input and runs name ids, maps and linking over it.
func link(t *testing.T, input string) *unit {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.ddl", []byte(input))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	if res := parser.ParseFile(fs.Get(id), b, b.Root, parser.Options{Reporter: rep}); res.Errors > 0 {
		t.Fatalf("parse errors: %s", summary(bag))
	}
	maxID := AssignNameIDs(b)
	table := BuildMaps(b, rep, maxID)
	rs, ok := Link(b, table, rep)
	return &unit{b: b, bag: bag, table: table, rs: rs, ok: ok && !bag.HasErrors()}
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

// constIn finds a constant by its qualified name, e.g. "#a#b#x".
func (u *unit) constIn(t *testing.T, qualified string) ast.ConstID {
	t.Helper()
	for i, c := range u.b.Consts.Slice() {
		if u.b.QualifiedName(c.Parent, c.Name.Text) == qualified {
			return ast.ConstID(i + 1)
		}
	}
	t.Fatalf("constant %s not found", qualified)
	return ast.NoConstID
}

// refOf returns the constant a reference initializer of qualified resolved to.
func (u *unit) refOf(t *testing.T, qualified string) string {
	t.Helper()
	c := u.b.Const(u.constIn(t, qualified))
	e := u.b.Expr(c.Value)
	if e.Kind != ast.ExprRef {
		t.Fatalf("%s is not initialized by a reference", qualified)
	}
	if !e.Const.IsValid() {
		return "<unresolved>"
	}
	target := u.b.Const(e.Const)
	return u.b.QualifiedName(target.Parent, target.Name.Text)
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}
