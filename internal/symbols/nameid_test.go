package symbols

import (
	"testing"

	"ddl/internal/ast"
)

func TestNameIDsMatchSpellings(t *testing.T) {
	u := link(t, `
scope a { int x = 1; }
int x = a#x;
struct P { int x; int y; }
P p = {.y = 2};
`)
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}

	ids := make(map[string]ast.NameID)
	check := func(n ast.Name) {
		if !n.ID.IsValid() {
			t.Errorf("%q has no id", n.Text)
			return
		}
		if prev, ok := ids[n.Text]; ok && prev != n.ID {
			t.Errorf("%q has ids %d and %d", n.Text, prev, n.ID)
		}
		ids[n.Text] = n.ID
	}
	for _, n := range collectNames(u.b) {
		check(*n)
	}

	seen := make(map[ast.NameID]string)
	for text, id := range ids {
		if other, ok := seen[id]; ok {
			t.Errorf("%q and %q share id %d", text, other, id)
		}
		seen[id] = text
	}
	// a x P y p
	if u.table.MaxID != ast.NameID(len(ids)) || len(ids) != 5 {
		t.Errorf("MaxID = %d, distinct spellings = %d", u.table.MaxID, len(ids))
	}
}

func TestNameIDsEmptyUnit(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	if got := AssignNameIDs(b); got != 1 {
		t.Errorf("AssignNameIDs on an empty unit = %d, want 1", got)
	}
}

func TestNameIDsAreCaseSensitive(t *testing.T) {
	u := link(t, "int ab = 1; int AB = 2; int Ab = 3;")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	if u.table.MaxID != 3 {
		t.Errorf("MaxID = %d, want 3", u.table.MaxID)
	}
}
