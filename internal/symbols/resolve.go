package symbols

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
)

// Kind is the kind of declaration a reference asks for.
type Kind uint8

const (
	KindConst Kind = iota
	KindAlias
	KindAliasOrStruct
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "constant"
	case KindAlias:
		return "type"
	case KindAliasOrStruct:
		return "type or structure"
	}
	return "unknown"
}

// Target is what a reference resolved to; exactly one field is set.
type Target struct {
	Const  ast.ConstID
	Alias  ast.AliasID
	Struct ast.StructID
}

func (t Target) IsValid() bool {
	return t.Const.IsValid() || t.Alias.IsValid() || t.Struct.IsValid()
}

// Failure tells why a lookup failed.
type Failure uint8

const (
	FailNone Failure = iota
	FailScope
	FailName
	FailDots
)

// Resolver looks references up in the maps of a Table.
type Resolver struct {
	b      *ast.Builder
	table  *Table
	rep    diag.Reporter
	errors int
}

func NewResolver(b *ast.Builder, table *Table, r diag.Reporter) *Resolver {
	return &Resolver{b: b, table: table, rep: r}
}

// Errors counts the errors this resolver reported.
func (rs *Resolver) Errors() int { return rs.errors }

// Resolve looks ref up from scope and reports a Failure.
func (rs *Resolver) Resolve(ref *ast.NameRef, from ast.ScopeID, kind Kind) (Target, bool) {
	target, fail, seg := rs.Lookup(ref, from, kind)
	switch fail {
	case FailNone:
		return target, true
	case FailScope:
		rs.errorf(diag.NamUndefinedScope, seg.Span, "undefined scope: %s in %s", seg.Text, ref.String())
	case FailDots:
		rs.errorf(diag.NamTooManyDots, ref.Span, "undefined name, too many dots: %s", ref.String())
	default:
		rs.errorf(diag.NamUndefinedName, ref.Span, "undefined name: %s", ref.String())
	}
	return Target{}, false
}

// Lookup resolves ref without reporting. On Failure it tells what failed and,
// for an undefined scope, which segment.
func (rs *Resolver) Lookup(ref *ast.NameRef, from ast.ScopeID, kind Kind) (Target, Failure, ast.Name) {
	start := rs.table.MapOf(from)
	switch ref.Mode {
	case ast.RefAbs:
		return rs.lookupIn(rs.table.Root, ref, kind)
	case ast.RefThis:
		return rs.lookupIn(start, ref, kind)
	case ast.RefDots:
		up := start.Up(ref.Dots - 1)
		if up == nil {
			return Target{}, FailDots, ast.Name{}
		}
		return rs.lookupIn(up, ref, kind)
	}

	// Rel: the whole chain at the nearest scope first, then outward.
	// An undefined name beats an undefined scope in the report.
	bestFail, bestSeg := FailNone, ast.Name{}
	for m := start; m != nil; m = m.Parent {
		target, fail, seg := rs.lookupIn(m, ref, kind)
		if fail == FailNone {
			return target, FailNone, seg
		}
		if bestFail == FailNone || fail == FailName && bestFail == FailScope {
			bestFail, bestSeg = fail, seg
		}
	}
	return Target{}, bestFail, bestSeg
}

func (rs *Resolver) lookupIn(m *LinkMap, ref *ast.NameRef, kind Kind) (Target, Failure, ast.Name) {
	for _, seg := range ref.Path() {
		next, ok := m.Scopes[seg.ID]
		if !ok {
			return Target{}, FailScope, seg
		}
		m = next
	}
	id := ref.Target().ID
	switch kind {
	case KindConst:
		if c, ok := m.Consts[id]; ok {
			return Target{Const: c}, FailNone, ast.Name{}
		}
	case KindAlias:
		if a, ok := m.Aliases[id]; ok {
			return Target{Alias: a}, FailNone, ast.Name{}
		}
	case KindAliasOrStruct:
		if a, ok := m.Aliases[id]; ok {
			return Target{Alias: a}, FailNone, ast.Name{}
		}
		if s, ok := m.Structs[id]; ok {
			return Target{Struct: s}, FailNone, ast.Name{}
		}
	}
	return Target{}, FailName, *ref.Target()
}

// ResolveType links a Ref type to its alias or struct. A linked type is left
// as it is.
func (rs *Resolver) ResolveType(id ast.TypeID) bool {
	t := rs.b.Type(id)
	if t.Kind != ast.TypeRef || t.Alias.IsValid() || t.Struct.IsValid() {
		return true
	}
	ref := rs.b.NameRef(t.Ref)
	if ref.QName {
		rs.errorf(diag.NamQNameNotAllowed, ref.Span, "QName is not allowed here: %s", ref.String())
		return false
	}
	target, ok := rs.Resolve(ref, ref.Scope, KindAliasOrStruct)
	if !ok {
		return false
	}
	t.Alias, t.Struct = target.Alias, target.Struct
	return true
}

// ResolveExpr links the references inside an expression tree. Qnames stay
// unresolved where allowed; they are bound during evaluation.
func (rs *Resolver) ResolveExpr(id ast.ExprID, qnameOK bool) bool {
	if !id.IsValid() {
		return true
	}
	e := rs.b.Expr(id)
	ok := true
	switch e.Kind {
	case ast.ExprRef:
		ref := rs.b.NameRef(e.Ref)
		switch {
		case ref.QName && !qnameOK:
			rs.errorf(diag.NamQNameNotAllowed, ref.Span, "QName is not allowed here: %s", ref.String())
			return false
		case ref.QName, e.Const.IsValid():
			return true
		}
		target, found := rs.Resolve(ref, ref.Scope, KindConst)
		if !found {
			return false
		}
		e.Const = target.Const
		return true
	case ast.ExprDomain:
		if !e.Alias.IsValid() {
			ref := rs.b.NameRef(e.Ref)
			if ref.QName {
				rs.errorf(diag.NamQNameNotAllowed, ref.Span, "QName is not allowed here: %s", ref.String())
				ok = false
			} else if target, found := rs.Resolve(ref, ref.Scope, KindAlias); found {
				e.Alias = target.Alias
			} else {
				ok = false
			}
		}
	case ast.ExprBraced:
		for _, it := range e.Items {
			ok = rs.ResolveExpr(it.Value, qnameOK) && ok
		}
		return ok
	}
	ok = rs.ResolveExpr(e.X, qnameOK) && ok
	ok = rs.ResolveExpr(e.Y, qnameOK) && ok
	return ok
}

func (rs *Resolver) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	rs.errors++
	diag.Errorf(rs.rep, code, sp, format, args...)
}
