package symbols

import (
	"ddl/internal/ast"
)

// LinkMap is the symbol table of one scope path. Reopened scopes and a
// struct's field scope next to a scope of the same name share one map.
type LinkMap struct {
	Name   ast.Name // zero for the root map
	Parent *LinkMap
	Depth  int
	// Scopes that contributed declarations, in the order they were met.
	Owners []ast.ScopeID

	Aliases map[ast.NameID]ast.AliasID
	Consts  map[ast.NameID]ast.ConstID
	Structs map[ast.NameID]ast.StructID
	Scopes  map[ast.NameID]*LinkMap
}

func newLinkMap(name ast.Name, parent *LinkMap) *LinkMap {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &LinkMap{
		Name:    name,
		Parent:  parent,
		Depth:   depth,
		Aliases: make(map[ast.NameID]ast.AliasID),
		Consts:  make(map[ast.NameID]ast.ConstID),
		Structs: make(map[ast.NameID]ast.StructID),
		Scopes:  make(map[ast.NameID]*LinkMap),
	}
}

// child returns the map for a nested scope name, creating it on first use.
func (m *LinkMap) child(name ast.Name) *LinkMap {
	if c, ok := m.Scopes[name.ID]; ok {
		return c
	}
	c := newLinkMap(name, m)
	m.Scopes[name.ID] = c
	return c
}

// Up returns the n-th ancestor, or nil when there are fewer than n.
func (m *LinkMap) Up(n int) *LinkMap {
	for ; n > 0 && m != nil; n-- {
		m = m.Parent
	}
	return m
}

// Path renders the scope path as #a#b; the root map is "#".
func (m *LinkMap) Path() string {
	if m.Parent == nil {
		return "#"
	}
	var names []string
	for cur := m; cur.Parent != nil; cur = cur.Parent {
		names = append(names, cur.Name.Text)
	}
	out := ""
	for i := len(names) - 1; i >= 0; i-- {
		out += "#" + names[i]
	}
	return out
}
