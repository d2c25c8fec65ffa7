package eval

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
)

// value evaluates e as a value of type want.
func (ec *evaluator) value(e ast.ExprID, want ast.TypeID) (Value, bool) {
	s, typ := ec.shape(want)
	switch s.Kind {
	case ast.TypeBase:
		switch k := typ.Base; {
		case k.IsIntegral():
			return ec.intOf(e, k)
		case k == ast.BaseText:
			return ec.textOf(e)
		case k == ast.BaseIP:
			return ec.ipOf(e)
		}
	case ast.TypePtr, ast.TypePolyPtr:
		p, ok := ec.ptrOf(e)
		if !ok {
			return Value{}, false
		}
		return ec.storePtr(p, want, ec.b.Expr(e).Span)
	case ast.TypeArray, ast.TypeArrayLen:
		return ec.arrayOf(e, want)
	case ast.TypeStruct:
		return ec.structOf(e, want)
	}
	ec.errorf(diag.EvlTypeMismatch, ec.b.Expr(e).Span, "unsupported type")
	return Value{}, false
}

func (ec *evaluator) mismatch(e ast.ExprID, want string) {
	x := ec.b.Expr(e)
	ec.errorf(diag.EvlTypeMismatch, x.Span, "type mismatch: %s cannot be %s", x.Kind, want)
}

// intOf evaluates e in integer kind k.
func (ec *evaluator) intOf(id ast.ExprID, k ast.BaseKind) (Value, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprNumber:
		return ec.number(e, k, false)
	case ast.ExprNeg:
		if x := ec.b.Expr(e.X); x.Kind == ast.ExprNumber {
			return ec.number(x, k, true)
		}
		v, ok := ec.intOf(e.X, k)
		if !ok {
			return Value{}, false
		}
		r, code := negInt(k, v)
		if code != 0 {
			ec.errorf(code, e.Span, "integer overflow: -%s in %s", v.Decimal(), k)
			return Value{}, false
		}
		return r, true
	case ast.ExprPlus:
		return ec.intOf(e.X, k)
	case ast.ExprSub:
		if ec.classOf(e.X).isPtr() && ec.classOf(e.Y).isPtr() {
			d, ok := ec.ptrDiff(e)
			if !ok {
				return Value{}, false
			}
			return ec.castTo(k, d, e)
		}
		fallthrough
	case ast.ExprAdd, ast.ExprMul, ast.ExprDiv, ast.ExprRem:
		if ec.classOf(id).isPtr() {
			ec.mismatch(id, k.String())
			return Value{}, false
		}
		x, okX := ec.intOf(e.X, k)
		if ec.parked() {
			return Value{}, false
		}
		y, okY := ec.intOf(e.Y, k)
		if !okX || !okY {
			return Value{}, false
		}
		r, code := arithInt(e.Kind, k, x, y)
		switch code {
		case 0:
			return r, true
		case diag.EvlDivByZero:
			ec.errorf(code, e.Span, "division by zero: %s %s %s", x.Decimal(), e.Kind, y.Decimal())
		default:
			ec.errorf(code, e.Span, "integer overflow: %s %s %s in %s", x.Decimal(), e.Kind, y.Decimal(), k)
		}
		return Value{}, false
	case ast.ExprDomain:
		v, ok := ec.intOf(e.X, e.Domain)
		if !ok {
			return Value{}, false
		}
		return ec.castTo(k, v, e)
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, _, ok := ec.read(id)
		if !ok {
			return Value{}, false
		}
		if v.Kind != VKInt {
			ec.errorf(diag.EvlTypeMismatch, e.Span, "type mismatch: %s is not an integer", v.Kind)
			return Value{}, false
		}
		return ec.castTo(k, v, e)
	}
	ec.mismatch(id, k.String())
	return Value{}, false
}

func (ec *evaluator) number(e *ast.Expr, k ast.BaseKind, negative bool) (Value, bool) {
	lit, ok := literal(e.Digits, e.Base, negative)
	if !ok {
		ec.errorf(diag.EvlRange, e.Span, "number is too big")
		return Value{}, false
	}
	return ec.castTo(k, lit, e)
}

func (ec *evaluator) castTo(k ast.BaseKind, v Value, e *ast.Expr) (Value, bool) {
	r, ok := castInt(k, v)
	if !ok {
		ec.errorf(diag.EvlRange, e.Span, "value %s is out of range of %s", v.Decimal(), k)
	}
	return r, ok
}

// textOf evaluates e as text. Integers render as decimals.
func (ec *evaluator) textOf(id ast.ExprID) (Value, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprString:
		return textValue(e.Text), true
	case ast.ExprNumber:
		lit, ok := literal(e.Digits, e.Base, false)
		if !ok {
			ec.errorf(diag.EvlRange, e.Span, "number is too big")
			return Value{}, false
		}
		return textValue(lit.Decimal()), true
	case ast.ExprAdd:
		x, okX := ec.textOf(e.X)
		if ec.parked() {
			return Value{}, false
		}
		y, okY := ec.textOf(e.Y)
		if !okX || !okY {
			return Value{}, false
		}
		return textValue(x.Text + y.Text), true
	case ast.ExprDomain:
		v, ok := ec.intOf(e.X, e.Domain)
		if !ok {
			return Value{}, false
		}
		return textValue(v.Decimal()), true
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, _, ok := ec.read(id)
		if !ok {
			return Value{}, false
		}
		switch v.Kind {
		case VKText:
			return v, true
		case VKInt:
			return textValue(v.Decimal()), true
		}
		ec.errorf(diag.EvlTypeMismatch, e.Span, "type mismatch: %s is not text", v.Kind)
		return Value{}, false
	}
	ec.mismatch(id, "text")
	return Value{}, false
}

func (ec *evaluator) ipOf(id ast.ExprID) (Value, bool) {
	e := ec.b.Expr(id)
	switch e.Kind {
	case ast.ExprIP:
		return ipValue(e.IP), true
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, _, ok := ec.read(id)
		if !ok {
			return Value{}, false
		}
		if v.Kind == VKIP {
			return v, true
		}
		ec.errorf(diag.EvlTypeMismatch, e.Span, "type mismatch: %s is not ip", v.Kind)
		return Value{}, false
	}
	ec.mismatch(id, "ip")
	return Value{}, false
}
