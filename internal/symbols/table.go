package symbols

import (
	"fmt"

	"ddl/internal/ast"
)

// Table holds the maps built for one unit.
type Table struct {
	Root  *LinkMap
	Maps  []*LinkMap // breadth-first creation order
	MaxID ast.NameID

	byScope []*LinkMap // indexed by ScopeID
	fields  map[ast.StructID]map[ast.NameID]ast.FieldID
}

func newTable(b *ast.Builder, maxID ast.NameID) *Table {
	return &Table{
		MaxID:   maxID,
		byScope: make([]*LinkMap, b.Scopes.Len()+1),
		fields:  make(map[ast.StructID]map[ast.NameID]ast.FieldID, b.Structs.Len()),
	}
}

// MapOf returns the map that holds declarations of scope.
func (t *Table) MapOf(scope ast.ScopeID) *LinkMap {
	if int(scope) >= len(t.byScope) {
		return nil
	}
	return t.byScope[scope]
}

// Field looks a field of st up by name.
func (t *Table) Field(st ast.StructID, name ast.NameID) (ast.FieldID, bool) {
	id, ok := t.fields[st][name]
	return id, ok
}

// Validate checks that every scope has a map and every map links to its parent.
func (t *Table) Validate() error {
	if t.Root == nil {
		return fmt.Errorf("symbols: no root map")
	}
	for id := 1; id < len(t.byScope); id++ {
		if t.byScope[id] == nil {
			return fmt.Errorf("symbols: scope %d has no map", id)
		}
	}
	for _, m := range t.Maps {
		if m == t.Root {
			continue
		}
		if m.Parent == nil || m.Parent.Scopes[m.Name.ID] != m {
			return fmt.Errorf("symbols: map %s is not linked to its parent", m.Path())
		}
	}
	return nil
}
