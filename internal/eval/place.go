package eval

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
)

// place returns a pointer to the object e designates.
func (ec *evaluator) place(id ast.ExprID) (Ptr, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprRef:
		c, ok := ec.bindConst(e)
		if !ok {
			return Ptr{}, false
		}
		return Ptr{Root: c, Type: ec.b.Const(c).Type}, true
	case ast.ExprField:
		base, ok := ec.place(e.X)
		if !ok {
			return Ptr{}, false
		}
		return ec.fieldAt(base, e)
	case ast.ExprPtrField:
		base, ok := ec.deref(e.X)
		if !ok {
			return Ptr{}, false
		}
		return ec.fieldAt(base, e)
	case ast.ExprIndex:
		switch ec.classOf(e.X) {
		case clsPoly:
			ec.errorf(diag.EvlPtrArith, e.Span, "arithmetic on a poly pointer")
			return Ptr{}, false
		case clsPtr:
			// p[i] is *(p + i)
			p, ok := ec.deref(e.X)
			if !ok {
				return Ptr{}, false
			}
			n, ok := ec.intOf(e.Y, ast.BaseSint64)
			if !ok {
				return Ptr{}, false
			}
			return ec.ptrAdd(p, n.S, e.Span)
		}
		base, ok := ec.place(e.X)
		if !ok {
			return Ptr{}, false
		}
		n, ok := ec.intOf(e.Y, ast.BaseSint64)
		if !ok {
			return Ptr{}, false
		}
		return ec.elemAt(base, n.S, e.Span)
	case ast.ExprDeref:
		return ec.deref(e.X)
	}
	ec.errorf(diag.EvlNotAddressable, e.Span, "expression is not addressable: %s", e.Kind)
	return Ptr{}, false
}

// deref evaluates a pointer expression that must not be null.
func (ec *evaluator) deref(id ast.ExprID) (Ptr, bool) {
	p, ok := ec.ptrOf(id)
	if !ok {
		return Ptr{}, false
	}
	if p.Null {
		ec.errorf(diag.EvlNullPtr, ec.b.Expr(id).Span, "null pointer dereference")
		return Ptr{}, false
	}
	return p, true
}

func (ec *evaluator) fieldAt(base Ptr, e *ast.Expr) (Ptr, bool) {
	s, _ := ec.shape(base.Type)
	if s.Kind != ast.TypeStruct {
		ec.errorf(diag.EvlUnknownField, e.Span, "field %s of a non-struct %s", e.Name.Text, ec.typeString(base.Type))
		return Ptr{}, false
	}
	f, ok := ec.table.Field(s.Struct, e.Name.ID)
	if !ok {
		ec.errorf(diag.EvlUnknownField, e.Span, "unknown field %s in %s", e.Name.Text, ec.typeString(base.Type))
		return Ptr{}, false
	}
	fd := ec.b.Field(f)
	return base.child(fd.Pos, fd.Type, base.Type), true
}

// elemAt designates element n of the array base; one past the end is
// allowed here and rejected on read.
func (ec *evaluator) elemAt(base Ptr, n int64, sp source.Span) (Ptr, bool) {
	elem, ok := ec.elemOf(base.Type)
	if !ok || !ec.isArray(base.Type) {
		ec.errorf(diag.EvlBadIndex, sp, "index of a non-array %s", ec.typeString(base.Type))
		return Ptr{}, false
	}
	i, ok := ec.checkIndex(base, n, sp, diag.EvlBadIndex)
	if !ok {
		return Ptr{}, false
	}
	return base.child(i, elem, base.Type), true
}

// ptrAdd moves an element pointer by n elements within its array.
func (ec *evaluator) ptrAdd(p Ptr, n int64, sp source.Span) (Ptr, bool) {
	if p.Null {
		ec.errorf(diag.EvlNullPtr, sp, "arithmetic on a null pointer")
		return Ptr{}, false
	}
	if len(p.Path) == 0 || !ec.isArray(p.Parent) {
		ec.errorf(diag.EvlPtrArith, sp, "pointer arithmetic on a pointer that does not designate an array element")
		return Ptr{}, false
	}
	at := int64(p.last())
	if (n > 0 && at > maxIndex-n) || (n < 0 && at+n < 0) {
		ec.errorf(diag.EvlPtrArith, sp, "pointer is out of array bounds: %d%+d", at, n)
		return Ptr{}, false
	}
	arr := Ptr{Root: p.Root, Path: p.Path[:len(p.Path)-1], Type: p.Parent}
	i, ok := ec.checkIndex(arr, at+n, sp, diag.EvlPtrArith)
	if !ok {
		return Ptr{}, false
	}
	return p.withLast(i), true
}

const maxIndex = 1<<31 - 1

// checkIndex bounds n by [0, len] of the array arr designates. For an array
// without a declared length the check waits for the array's constant.
func (ec *evaluator) checkIndex(arr Ptr, n int64, sp source.Span, code diag.Code) (int, bool) {
	if n < 0 || n > maxIndex {
		ec.errorf(code, sp, "index %d is out of range", n)
		return 0, false
	}
	i := int(n)
	s, typ := ec.shape(arr.Type)
	if s.Kind == ast.TypeArrayLen {
		l, ok := ec.needLen(typ.Len)
		if !ok {
			return 0, false
		}
		if msg, bad := boundError(i, int(l), false); bad { // #nosec G115 -- bounded by the memory guard
			ec.errorf(code, sp, "%s", msg)
			return 0, false
		}
		return i, true
	}
	ec.deferBound(arr.child(i, ast.NoTypeID, arr.Type), sp, code)
	return i, true
}

// deferBound checks now if the constant is done, else after it is.
func (ec *evaluator) deferBound(p Ptr, sp source.Span, code diag.Code) {
	c := boundCheck{ptr: p, span: sp, code: code}
	if root := ec.constRec(p.Root); root == ec.cur || root.state == recPending {
		ec.checks = append(ec.checks, c)
		return
	}
	ec.checkBound(c)
}

// load reads the value p designates, parking if its constant is not done.
func (ec *evaluator) load(p Ptr, sp source.Span) (Value, bool) {
	if p.Null {
		ec.errorf(diag.EvlNullPtr, sp, "null pointer dereference")
		return Value{}, false
	}
	if ec.constRec(p.Root) == ec.cur {
		ec.park(ec.cur)
		return Value{}, false
	}
	v, ok := ec.needConst(p.Root)
	if !ok {
		return Value{}, false
	}
	for _, i := range p.Path {
		if v.Kind != VKBlock {
			ec.errorf(diag.EvlBadDeref, sp, "bad dereference")
			return Value{}, false
		}
		if msg, bad := boundError(i, len(v.Block), true); bad {
			ec.errorf(diag.EvlBadIndex, sp, "%s", msg)
			return Value{}, false
		}
		v = v.Block[i]
	}
	return v, true
}

// read evaluates a designating expression to the value and declared type
// of the object.
func (ec *evaluator) read(id ast.ExprID) (Value, ast.TypeID, bool) {
	p, ok := ec.place(id)
	if !ok {
		return Value{}, ast.NoTypeID, false
	}
	v, ok := ec.load(p, ec.b.Expr(id).Span)
	return v, p.Type, ok
}

// ptrOf evaluates a pointer expression without a destination type.
func (ec *evaluator) ptrOf(id ast.ExprID) (Ptr, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprNull:
		return Ptr{Null: true}, true
	case ast.ExprAddress:
		return ec.place(e.X)
	case ast.ExprAdd, ast.ExprSub:
		pe, ne := e.X, e.Y
		if e.Kind == ast.ExprAdd && !ec.classOf(pe).isPtr() {
			pe, ne = ne, pe
		}
		switch ec.classOf(pe) {
		case clsPoly:
			ec.errorf(diag.EvlPtrArith, e.Span, "arithmetic on a poly pointer")
			return Ptr{}, false
		case clsPtr:
		default:
			ec.mismatch(id, "a pointer")
			return Ptr{}, false
		}
		p, ok := ec.ptrOf(pe)
		if !ok {
			return Ptr{}, false
		}
		n, ok := ec.intOf(ne, ast.BaseSint64)
		if !ok {
			return Ptr{}, false
		}
		delta := n.S
		if e.Kind == ast.ExprSub {
			neg, code := negInt(ast.BaseSint64, n)
			if code != 0 {
				ec.errorf(diag.EvlPtrArith, e.Span, "pointer offset overflow")
				return Ptr{}, false
			}
			delta = neg.S
		}
		return ec.ptrAdd(p, delta, e.Span)
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, _, ok := ec.read(id)
		if !ok {
			return Ptr{}, false
		}
		if v.Kind != VKPtr {
			ec.errorf(diag.EvlTypeMismatch, e.Span, "type mismatch: %s is not a pointer", v.Kind)
			return Ptr{}, false
		}
		return v.Ptr, true
	}
	ec.mismatch(id, "a pointer")
	return Ptr{}, false
}

// ptrDiff evaluates p - q as a signed element count. Both must designate
// elements of the same array of the same constant.
func (ec *evaluator) ptrDiff(e *ast.Expr) (Value, bool) {
	p, ok := ec.ptrOf(e.X)
	if !ok {
		return Value{}, false
	}
	q, ok := ec.ptrOf(e.Y)
	if !ok {
		return Value{}, false
	}
	if p.Null || q.Null {
		ec.errorf(diag.EvlNullPtr, e.Span, "difference of null pointers")
		return Value{}, false
	}
	if !p.samePrefix(q) || !ec.isArray(p.Parent) {
		ec.errorf(diag.EvlPtrDiff, e.Span, "pointers designate different arrays")
		return Value{}, false
	}
	return intValue(ast.BaseSint64, int64(p.last()-q.last()), 0), true
}

// storePtr checks that p may be stored as a value of the pointer type want.
// A pointer to an array decays to its first element when the element type
// fits.
func (ec *evaluator) storePtr(p Ptr, want ast.TypeID, sp source.Span) (Value, bool) {
	s, typ := ec.shape(want)
	targets := typ.List
	if s.Kind == ast.TypePtr {
		targets = []ast.TypeID{typ.Elem}
	}

	if p.Null && !p.Type.IsValid() {
		if s.Kind == ast.TypePtr {
			p.Type = typ.Elem
		}
		return ptrValue(p), true
	}

	fits, ok := ec.fitsAny(p.Type, targets)
	if !ok {
		return Value{}, false
	}
	if fits {
		return ptrValue(p), true
	}
	if !p.Null && ec.isArray(p.Type) {
		elem, _ := ec.elemOf(p.Type)
		fits, ok := ec.fitsAny(elem, targets)
		if !ok {
			return Value{}, false
		}
		if fits {
			return ptrValue(p.child(0, elem, p.Type)), true
		}
	}
	ec.errorf(diag.EvlPtrType, sp, "pointer type mismatch: %s * is not %s", ec.typeString(p.Type), ec.typeString(want))
	return Value{}, false
}

func (ec *evaluator) fitsAny(t ast.TypeID, targets []ast.TypeID) (bool, bool) {
	for _, target := range targets {
		same, ok := ec.sameType(t, target)
		if !ok {
			return false, false
		}
		if same {
			return true, true
		}
	}
	return false, true
}
