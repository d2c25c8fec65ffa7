package parser

import (
	"fmt"
	"strings"
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ddl", []byte(input))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(0)
	res := ParseFile(fs.Get(id), b, b.Root, Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.Errors != bag.ErrorCount() {
		t.Fatalf("Result.Errors = %d, bag has %d", res.Errors, bag.ErrorCount())
	}
	return b, bag
}

func mustParse(t *testing.T, input string) *ast.Builder {
	t.Helper()
	b, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	return b
}

// constByName finds a constant declared directly in scope.
func constByName(t *testing.T, b *ast.Builder, scope ast.ScopeID, name string) *ast.Const {
	t.Helper()
	for _, id := range b.Scope(scope).Body.Consts {
		if c := b.Const(id); c.Name.Text == name {
			return c
		}
	}
	t.Fatalf("constant %s not found", name)
	return nil
}
