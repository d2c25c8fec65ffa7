package symbols

import (
	"slices"

	"ddl/internal/ast"
	"ddl/internal/diag"
)

// BuildMaps creates the scope maps and field maps of b. Names must already
// carry their ids. Duplicates are reported and the first declaration wins,
// so every later lookup stays well defined.
func BuildMaps(b *ast.Builder, r diag.Reporter, maxID ast.NameID) *Table {
	t := newTable(b, maxID)
	t.Root = newLinkMap(ast.Name{}, nil)
	t.Maps = append(t.Maps, t.Root)
	t.byScope[b.Root] = t.Root

	// breadth-first: a queue of scopes whose map is already known
	queue := []ast.ScopeID{b.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		scope := b.Scope(id)
		m := t.byScope[id]
		m.Owners = append(m.Owners, id)

		for _, child := range scope.Body.Scopes {
			name := b.Scope(child).Name
			before := len(m.Scopes)
			cm := m.child(name)
			if len(m.Scopes) != before {
				t.Maps = append(t.Maps, cm)
			}
			t.byScope[child] = cm
			queue = append(queue, child)
		}
		t.insertDecls(b, r, m, &scope.Body)
	}

	for i := range b.Structs.Slice() {
		t.buildFieldMap(b, r, ast.StructID(i+1)) // #nosec G115 -- arena index
	}
	t.checkKinds(b, r)
	return t
}

func (t *Table) insertDecls(b *ast.Builder, r diag.Reporter, m *LinkMap, body *ast.Body) {
	for _, id := range body.Aliases {
		a := b.Alias(id)
		if prev, ok := m.Aliases[a.Name.ID]; ok {
			duplicate(r, "type", b, a.Parent, a.Name, b.Alias(prev).Name)
			continue
		}
		m.Aliases[a.Name.ID] = id
	}
	for _, id := range body.Consts {
		c := b.Const(id)
		if prev, ok := m.Consts[c.Name.ID]; ok {
			duplicate(r, "constant", b, c.Parent, c.Name, b.Const(prev).Name)
			continue
		}
		m.Consts[c.Name.ID] = id
	}
	for _, id := range body.Structs {
		s := b.Struct(id)
		if prev, ok := m.Structs[s.Name.ID]; ok {
			duplicate(r, "structure", b, s.Parent, s.Name, b.Struct(prev).Name)
			continue
		}
		m.Structs[s.Name.ID] = id
	}
}

func duplicate(r diag.Reporter, kind string, b *ast.Builder, scope ast.ScopeID, name, prev ast.Name) {
	diag.ReportError(r, dupCode[kind], name.Span,
		kind+" name duplication: "+b.QualifiedName(scope, name.Text)).
		WithNote(prev.Span, "previous declaration").
		Emit()
}

var dupCode = map[string]diag.Code{
	"type":      diag.NamTypeDup,
	"constant":  diag.NamConstDup,
	"structure": diag.NamStructDup,
	"field":     diag.NamFieldDup,
}

func (t *Table) buildFieldMap(b *ast.Builder, r diag.Reporter, st ast.StructID) {
	s := b.Struct(st)
	fm := make(map[ast.NameID]ast.FieldID, len(s.Fields))
	for _, id := range s.Fields {
		f := b.Field(id)
		if prev, ok := fm[f.Name.ID]; ok {
			duplicate(r, "field", b, s.FieldScope, f.Name, b.Field(prev).Name)
			continue
		}
		fm[f.Name.ID] = id
	}
	t.fields[st] = fm
}

// checkKinds reports names bound to more than one kind in one map.
// A struct and a scope may share a name: the scope extends the field scope.
func (t *Table) checkKinds(b *ast.Builder, r diag.Reporter) {
	for _, m := range t.Maps {
		var ids []ast.NameID
		seen := make(map[ast.NameID]int)
		note := func(id ast.NameID) {
			if seen[id]++; seen[id] == 2 {
				ids = append(ids, id)
			}
		}
		for id := range m.Aliases {
			note(id)
		}
		for id := range m.Consts {
			note(id)
		}
		for id := range m.Structs {
			note(id)
		}
		for id := range m.Scopes {
			note(id)
		}
		slices.Sort(ids)

		for _, id := range ids {
			decls := t.declsOf(b, m, id)
			for i := 0; i < len(decls); i++ {
				for j := i + 1; j < len(decls); j++ {
					x, y := decls[i], decls[j]
					diag.ReportError(r, diag.NamKindConflict, y.name.Span,
						"same name of different kind: "+x.kind+" and "+y.kind+" "+y.name.Text).
						WithNote(x.name.Span, "the "+x.kind+" is declared here").
						Emit()
				}
			}
		}
	}
}

type decl struct {
	kind string
	name ast.Name
}

// declsOf lists the declarations of one name in kind order: type, constant,
// structure, scope.
func (t *Table) declsOf(b *ast.Builder, m *LinkMap, id ast.NameID) []decl {
	var out []decl
	if a, ok := m.Aliases[id]; ok {
		out = append(out, decl{"type", b.Alias(a).Name})
	}
	if c, ok := m.Consts[id]; ok {
		out = append(out, decl{"constant", b.Const(c).Name})
	}
	s, isStruct := m.Structs[id]
	if isStruct {
		out = append(out, decl{"structure", b.Struct(s).Name})
	}
	// a scope next to a struct of the same name is that struct's field scope
	if sm, ok := m.Scopes[id]; ok && !isStruct {
		out = append(out, decl{"scope", sm.Name})
	}
	return out
}
