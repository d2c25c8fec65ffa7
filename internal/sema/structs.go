package sema

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
)

type visitState uint8

const (
	white visitState = iota
	grey
	black
)

// CheckStructs rejects structs that embed themselves, directly or through
// other structs. Pointers and arrays do not embed. On the way it assigns
// DepIndex: the postorder rank, so an embedded struct ranks lower than
// every struct that embeds it.
func CheckStructs(b *ast.Builder, r diag.Reporter) bool {
	c := &structChecker{
		b:     b,
		r:     r,
		state: make(map[ast.StructID]visitState, b.Structs.Len()),
		ok:    true,
	}
	for i := range b.Structs.Slice() {
		id := ast.StructID(i + 1) // #nosec G115 -- arena index
		if c.state[id] == white {
			c.visit(id)
		}
	}
	return c.ok
}

type structChecker struct {
	b     *ast.Builder
	r     diag.Reporter
	state map[ast.StructID]visitState
	rank  int
	ok    bool
}

func (c *structChecker) visit(id ast.StructID) {
	c.state[id] = grey
	s := c.b.Struct(id)
	for _, fid := range s.Fields {
		f := c.b.Field(fid)
		dep := EmbeddedStruct(c.b, f.Type)
		if !dep.IsValid() {
			continue
		}
		switch c.state[dep] {
		case grey:
			diag.ReportError(c.r, diag.TypCyclicStruct, s.Name.Span,
				"cyclic struct definition: "+c.b.QualifiedName(s.Parent, s.Name.Text)).
				WithNote(f.Span, "field "+f.Name.Text+" embeds "+c.b.Struct(dep).Name.Text).
				Emit()
			c.ok = false
		case white:
			c.visit(dep)
		}
	}
	c.state[id] = black
	s.DepIndex = c.rank
	c.rank++
}

// EmbeddedStruct returns the struct a field of type id stores inline, if any.
func EmbeddedStruct(b *ast.Builder, id ast.TypeID) ast.StructID {
	shape := b.ShapeOf(id)
	if shape.Kind == ast.TypeStruct {
		return shape.Struct
	}
	return ast.NoStructID
}
