package eval

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
)

func (ec *evaluator) enter(sp source.Span) bool {
	if ec.depth >= maxNesting {
		ec.errorf(diag.EvlMemGuard, sp, "memory guard exceeded: values nested deeper than %d", maxNesting)
		return false
	}
	ec.depth++
	return true
}

func (ec *evaluator) leave() { ec.depth-- }

// arrayOf evaluates e as an array of type want.
func (ec *evaluator) arrayOf(id ast.ExprID, want ast.TypeID) (Value, bool) {
	e := ec.b.Expr(id)
	s, typ := ec.shape(want)
	fixed := -1
	if s.Kind == ast.TypeArrayLen {
		n, ok := ec.needLen(typ.Len)
		if !ok {
			return Value{}, false
		}
		fixed = int(n) // #nosec G115 -- bounded by the memory guard
	}

	switch e.Kind {
	case ast.ExprBraced:
		for _, it := range e.Items {
			if it.Named {
				ec.errorf(diag.EvlTypeMismatch, it.Name.Span, "named initializer .%s in an array", it.Name.Text)
				return Value{}, false
			}
		}
		n := len(e.Items)
		if fixed >= 0 {
			if n > fixed {
				ec.errorf(diag.EvlTooManyElems, e.Span, "too many initializers: %d for %s", n, ec.typeString(want))
				return Value{}, false
			}
			n = fixed
		}
		if !ec.alloc(n, e.Span) || !ec.enter(e.Span) {
			return Value{}, false
		}
		defer ec.leave()
		block := make([]Value, n)
		ok := true
		for i := range block {
			var v Value
			var okV bool
			if i < len(e.Items) {
				v, okV = ec.value(e.Items[i].Value, typ.Elem)
			} else {
				v, okV = ec.defaultValue(typ.Elem, e.Span)
			}
			if ec.parked() {
				return Value{}, false
			}
			block[i], ok = v, ok && okV
		}
		return blockValue(block), ok
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, t, ok := ec.read(id)
		if !ok {
			return Value{}, false
		}
		return ec.copyArray(v, t, want, fixed, e.Span)
	}
	ec.mismatch(id, ec.typeString(want))
	return Value{}, false
}

// copyArray accepts an array whose element type is exactly the wanted one.
func (ec *evaluator) copyArray(v Value, from, want ast.TypeID, fixed int, sp source.Span) (Value, bool) {
	fromElem, okFrom := ec.elemOf(from)
	wantElem, _ := ec.elemOf(want)
	if okFrom && ec.isArray(from) {
		same, ok := ec.sameType(fromElem, wantElem)
		if !ok {
			return Value{}, false
		}
		if same && (fixed < 0 || fixed == len(v.Block)) {
			return v, true
		}
	}
	ec.errorf(diag.EvlTypeMismatch, sp, "type mismatch: %s is not %s", ec.typeString(from), ec.typeString(want))
	return Value{}, false
}

// structOf evaluates e as a value of the struct type want. Fields that a
// braced list leaves out take their defaults.
func (ec *evaluator) structOf(id ast.ExprID, want ast.TypeID) (Value, bool) {
	e := ec.b.Expr(id)
	s, _ := ec.shape(want)
	st := ec.b.Struct(s.Struct)

	switch e.Kind {
	case ast.ExprBraced:
		set := make([]ast.ExprID, len(st.Fields))
		pos := 0
		for _, it := range e.Items {
			at := pos
			if it.Named {
				f, ok := ec.table.Field(s.Struct, it.Name.ID)
				if !ok {
					ec.errorf(diag.EvlUnknownField, it.Name.Span, "unknown field %s in %s", it.Name.Text, ec.typeString(want))
					return Value{}, false
				}
				at = ec.b.Field(f).Pos
			} else {
				pos++
			}
			if at >= len(set) {
				ec.errorf(diag.EvlTooManyElems, e.Span, "too many initializers for %s", ec.typeString(want))
				return Value{}, false
			}
			if set[at].IsValid() {
				name := ec.b.Field(st.Fields[at]).Name.Text
				ec.errorf(diag.EvlTooManyElems, ec.b.Expr(it.Value).Span, "field %s is initialized twice", name)
				return Value{}, false
			}
			set[at] = it.Value
		}
		if !ec.alloc(len(st.Fields), e.Span) || !ec.enter(e.Span) {
			return Value{}, false
		}
		defer ec.leave()
		block := make([]Value, len(st.Fields))
		ok := true
		for i, fid := range st.Fields {
			f := ec.b.Field(fid)
			var v Value
			var okV bool
			if set[i].IsValid() {
				v, okV = ec.value(set[i], f.Type)
			} else {
				v, okV = ec.fieldDefault(f, e.Span)
			}
			if ec.parked() {
				return Value{}, false
			}
			block[i], ok = v, ok && okV
		}
		return blockValue(block), ok
	case ast.ExprRef, ast.ExprField, ast.ExprPtrField, ast.ExprIndex, ast.ExprDeref:
		v, t, ok := ec.read(id)
		if !ok {
			return Value{}, false
		}
		if from, _ := ec.shape(t); from.Kind == ast.TypeStruct && from.Struct == s.Struct {
			return v, true
		}
		ec.errorf(diag.EvlTypeMismatch, e.Span, "type mismatch: %s is not %s", ec.typeString(t), ec.typeString(want))
		return Value{}, false
	}
	ec.mismatch(id, ec.typeString(want))
	return Value{}, false
}

func (ec *evaluator) fieldDefault(f *ast.Field, sp source.Span) (Value, bool) {
	if f.Default.IsValid() {
		return ec.value(f.Default, f.Type)
	}
	return ec.defaultValue(f.Type, sp)
}

// defaultValue constructs the default of type t: zero integers, empty text,
// 0.0.0.0, null pointers, empty unbounded arrays and defaulted elements
// and fields.
func (ec *evaluator) defaultValue(t ast.TypeID, sp source.Span) (Value, bool) {
	s, typ := ec.shape(t)
	switch s.Kind {
	case ast.TypeBase:
		switch k := typ.Base; {
		case k.IsIntegral():
			return intValue(k, 0, 0), true
		case k == ast.BaseText:
			return textValue(""), true
		case k == ast.BaseIP:
			return ipValue(0), true
		}
	case ast.TypePtr:
		return ptrValue(Ptr{Null: true, Type: typ.Elem}), true
	case ast.TypePolyPtr:
		return ptrValue(Ptr{Null: true}), true
	case ast.TypeArray:
		return blockValue(nil), true
	case ast.TypeArrayLen:
		n, ok := ec.needLen(typ.Len)
		if !ok {
			return Value{}, false
		}
		if !ec.alloc(int(n), sp) || !ec.enter(sp) { // #nosec G115 -- bounded by the memory guard
			return Value{}, false
		}
		defer ec.leave()
		block := make([]Value, n)
		for i := range block {
			v, ok := ec.defaultValue(typ.Elem, sp)
			if !ok {
				return Value{}, false
			}
			block[i] = v
		}
		return blockValue(block), true
	case ast.TypeStruct:
		st := ec.b.Struct(s.Struct)
		if !ec.alloc(len(st.Fields), sp) || !ec.enter(sp) {
			return Value{}, false
		}
		defer ec.leave()
		block := make([]Value, len(st.Fields))
		for i, fid := range st.Fields {
			v, ok := ec.fieldDefault(ec.b.Field(fid), sp)
			if !ok {
				return Value{}, false
			}
			block[i] = v
		}
		return blockValue(block), true
	}
	ec.errorf(diag.EvlTypeMismatch, sp, "no default for %s", ec.typeString(t))
	return Value{}, false
}
