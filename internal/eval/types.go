package eval

import (
	"strconv"
	"strings"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/symbols"
)

func (ec *evaluator) shape(t ast.TypeID) (ast.Shape, *ast.Type) {
	s := ec.b.ShapeOf(t)
	return s, ec.b.Type(s.ID)
}

// baseOf returns the base kind of t, or BaseNone.
func (ec *evaluator) baseOf(t ast.TypeID) ast.BaseKind {
	if s, typ := ec.shape(t); s.Kind == ast.TypeBase {
		return typ.Base
	}
	return ast.BaseNone
}

// elemOf returns the element type of an array or pointer type.
func (ec *evaluator) elemOf(t ast.TypeID) (ast.TypeID, bool) {
	switch s, typ := ec.shape(t); s.Kind {
	case ast.TypePtr, ast.TypeArray, ast.TypeArrayLen:
		return typ.Elem, true
	}
	return ast.NoTypeID, false
}

func (ec *evaluator) isArray(t ast.TypeID) bool {
	s, _ := ec.shape(t)
	return s.Kind == ast.TypeArray || s.Kind == ast.TypeArrayLen
}

// sameType compares two types exactly: same kinds, same element types, same
// lengths and the same struct. It parks when a length is not known yet.
func (ec *evaluator) sameType(a, b ast.TypeID) (same, ok bool) {
	sa, ta := ec.shape(a)
	sb, tb := ec.shape(b)
	if sa.Kind != sb.Kind {
		return false, true
	}
	switch sa.Kind {
	case ast.TypeBase:
		return ta.Base == tb.Base, true
	case ast.TypeStruct:
		return sa.Struct == sb.Struct, true
	case ast.TypePtr, ast.TypeArray:
		return ec.sameType(ta.Elem, tb.Elem)
	case ast.TypeArrayLen:
		la, okA := ec.needLen(ta.Len)
		lb, okB := ec.needLen(tb.Len)
		if !okA || !okB {
			return false, false
		}
		if la != lb {
			return false, true
		}
		return ec.sameType(ta.Elem, tb.Elem)
	case ast.TypePolyPtr:
		if len(ta.List) != len(tb.List) {
			return false, true
		}
		for i := range ta.List {
			same, ok := ec.sameType(ta.List[i], tb.List[i])
			if !ok || !same {
				return same, ok
			}
		}
		return true, true
	}
	return false, true
}

// TypeString renders t the way results print it. Unknown lengths print as
// "?".
func TypeString(b *ast.Builder, t ast.TypeID, lenOf func(ast.LenID) (uint64, bool)) string {
	var sb strings.Builder
	writeType(&sb, b, t, lenOf, 100)
	return sb.String()
}

func writeType(sb *strings.Builder, b *ast.Builder, t ast.TypeID, lenOf func(ast.LenID) (uint64, bool), limit int) {
	s := b.ShapeOf(t)
	typ := b.Type(s.ID)
	switch s.Kind {
	case ast.TypeBase:
		sb.WriteString(typ.Base.String())
		return
	case ast.TypeStruct:
		st := b.Struct(s.Struct)
		sb.WriteString("struct ")
		sb.WriteString(b.QualifiedName(st.Parent, st.Name.Text))
		return
	case ast.TypeRef:
		sb.WriteString("?")
		return
	}
	if limit == 0 {
		sb.WriteString("...")
	}
	switch s.Kind {
	case ast.TypePtr:
		if limit > 0 {
			writeType(sb, b, typ.Elem, lenOf, limit-1)
		}
		sb.WriteString(" *")
	case ast.TypePolyPtr:
		if limit == 0 {
			sb.WriteString(" *")
			return
		}
		sb.WriteString("{ ")
		for i, e := range typ.List {
			if i > 0 {
				sb.WriteString(" , ")
			}
			writeType(sb, b, e, lenOf, limit-1)
		}
		sb.WriteString(" } *")
	case ast.TypeArray:
		if limit > 0 {
			writeType(sb, b, typ.Elem, lenOf, limit-1)
		}
		sb.WriteString(" []")
	case ast.TypeArrayLen:
		if limit > 0 {
			writeType(sb, b, typ.Elem, lenOf, limit-1)
		}
		if n, ok := lenOf(typ.Len); ok {
			sb.WriteString(" [" + strconv.FormatUint(n, 10) + "]")
		} else {
			sb.WriteString(" [?]")
		}
	}
}

func (ec *evaluator) typeString(t ast.TypeID) string {
	return TypeString(ec.b, t, func(id ast.LenID) (uint64, bool) {
		r := ec.lens[ec.b.Len(id).Index]
		return r.length, r.state == recDone
	})
}

// class is what an expression yields, known without evaluating it.
type class uint8

const (
	clsOther class = iota
	clsInt
	clsPtr
	clsPoly
	clsNull
)

func (c class) isPtr() bool { return c == clsPtr || c == clsPoly }

func (ec *evaluator) classOf(id ast.ExprID) class {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprNumber, ast.ExprNeg, ast.ExprPlus, ast.ExprMul, ast.ExprDiv, ast.ExprRem, ast.ExprDomain:
		return clsInt
	case ast.ExprNull:
		return clsNull
	case ast.ExprAddress:
		return clsPtr
	case ast.ExprAdd:
		cx, cy := ec.classOf(e.X), ec.classOf(e.Y)
		switch {
		case cx.isPtr():
			return cx
		case cy.isPtr():
			return cy
		}
		return clsInt
	case ast.ExprSub:
		cx, cy := ec.classOf(e.X), ec.classOf(e.Y)
		if cx.isPtr() && !cy.isPtr() {
			return cx
		}
		return clsInt
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		t, ok := ec.typeOf(id)
		if !ok {
			return clsOther
		}
		switch s, typ := ec.shape(t); s.Kind {
		case ast.TypePtr:
			return clsPtr
		case ast.TypePolyPtr:
			return clsPoly
		case ast.TypeBase:
			if typ.Base.IsIntegral() {
				return clsInt
			}
		}
	}
	return clsOther
}

// typeOf returns the declared type of the object an expression designates.
func (ec *evaluator) typeOf(id ast.ExprID) (ast.TypeID, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprRef:
		c, ok := ec.lookupConst(e)
		if !ok {
			return ast.NoTypeID, false
		}
		return ec.b.Const(c).Type, true
	case ast.ExprField:
		t, ok := ec.typeOf(e.X)
		if !ok {
			return ast.NoTypeID, false
		}
		return ec.fieldType(t, e.Name)
	case ast.ExprPtrField:
		t, ok := ec.typeOf(e.X)
		if !ok {
			return ast.NoTypeID, false
		}
		if s, typ := ec.shape(t); s.Kind == ast.TypePtr {
			return ec.fieldType(typ.Elem, e.Name)
		}
	case ast.ExprIndex, ast.ExprDeref:
		t, ok := ec.typeOf(e.X)
		if !ok {
			return ast.NoTypeID, false
		}
		return ec.elemOf(t)
	}
	return ast.NoTypeID, false
}

func (ec *evaluator) fieldType(t ast.TypeID, name ast.Name) (ast.TypeID, bool) {
	s, _ := ec.shape(t)
	if s.Kind != ast.TypeStruct {
		return ast.NoTypeID, false
	}
	f, ok := ec.table.Field(s.Struct, name.ID)
	if !ok {
		return ast.NoTypeID, false
	}
	return ec.b.Field(f).Type, true
}

// lookupConst returns the constant a reference names. A qname is bound from
// the scope of the record being evaluated.
func (ec *evaluator) lookupConst(e *ast.Expr) (ast.ConstID, bool) {
	if e.Const.IsValid() {
		return e.Const, true
	}
	ref := ec.b.NameRef(e.Ref)
	if !ref.QName || ec.cur == nil {
		return ast.NoConstID, false
	}
	target, fail, _ := ec.rs.Lookup(ref, ec.cur.scope, symbols.KindConst)
	if fail != symbols.FailNone {
		return ast.NoConstID, false
	}
	return target.Const, true
}

func (ec *evaluator) bindConst(e *ast.Expr) (ast.ConstID, bool) {
	c, ok := ec.lookupConst(e)
	if !ok {
		ref := ec.b.NameRef(e.Ref)
		ec.errorf(diag.EvlUndefinedQName, e.Span, "undefined late-bound name: %s", ref.String())
	}
	return c, ok
}
