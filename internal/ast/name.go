package ast

import "ddl/internal/source"

// Name is one identifier occurrence. ID is filled by NameId assignment.
type Name struct {
	Text string
	Span source.Span
	ID   NameID
}

// RefMode is the addressing mode of a name reference.
type RefMode uint8

const (
	RefRel  RefMode = iota // A#B: nearest scope first, then outward
	RefAbs                 // #A#B: from the root scope
	RefThis                // .#A: from the enclosing scope only
	RefDots                // ..#A: n-1 scopes up, then as RefThis
)

func (m RefMode) String() string {
	switch m {
	case RefRel:
		return "rel"
	case RefAbs:
		return "abs"
	case RefThis:
		return "this"
	case RefDots:
		return "dots"
	}
	return "unknown"
}

// NameRef is an unresolved reference: qualifying scope names then the target name.
// The resolved target is stored by the owning Type or Expr.
type NameRef struct {
	Mode  RefMode
	Dots  int    // RefDots only, >= 2
	Names []Name // len >= 1; the last one is the target
	QName bool   // ?name: late bound in field defaults
	Scope ScopeID
	Span  source.Span
}

// Target returns the final segment.
func (r *NameRef) Target() *Name {
	return &r.Names[len(r.Names)-1]
}

// Path returns the qualifying segments.
func (r *NameRef) Path() []Name {
	return r.Names[:len(r.Names)-1]
}

// String renders the reference the way it is written.
func (r *NameRef) String() string {
	var out string
	switch r.Mode {
	case RefAbs:
		out = "#"
	case RefThis:
		out = ".#"
	case RefDots:
		for range r.Dots {
			out += "."
		}
		out += "#"
	}
	if r.QName {
		out += "?"
	}
	for i, n := range r.Names {
		if i > 0 {
			out += "#"
		}
		out += n.Text
	}
	return out
}
