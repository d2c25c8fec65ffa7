package eval

import (
	"math"
	"strconv"

	"fortio.org/safecast"

	"ddl/internal/ast"
	"ddl/internal/diag"
)

// intOps holds the operations of one integer kind, instantiated for the Go
// type of the same width and signedness.
type intOps struct {
	arith func(op ast.ExprKind, k ast.BaseKind, x, y Value) (Value, diag.Code)
	neg   func(k ast.BaseKind, x Value) (Value, diag.Code)
	cast  func(k ast.BaseKind, x Value) (Value, bool)
}

func opsFor[T safecast.Integer]() intOps {
	return intOps{arith: arithT[T], neg: negT[T], cast: castT[T]}
}

// sint and uint are 32 bits wide, ulen is 64.
var intKinds = map[ast.BaseKind]intOps{
	ast.BaseSint:   opsFor[int32](),
	ast.BaseUint:   opsFor[uint32](),
	ast.BaseUlen:   opsFor[uint64](),
	ast.BaseSint8:  opsFor[int8](),
	ast.BaseUint8:  opsFor[uint8](),
	ast.BaseSint16: opsFor[int16](),
	ast.BaseUint16: opsFor[uint16](),
	ast.BaseSint32: opsFor[int32](),
	ast.BaseUint32: opsFor[uint32](),
	ast.BaseSint64: opsFor[int64](),
	ast.BaseUint64: opsFor[uint64](),
}

func isSigned(k ast.BaseKind) bool {
	switch k {
	case ast.BaseSint, ast.BaseSint8, ast.BaseSint16, ast.BaseSint32, ast.BaseSint64:
		return true
	}
	return false
}

func get[T safecast.Integer](v Value) T {
	if isSigned(v.Base) {
		return T(v.S)
	}
	return T(v.U)
}

func put[T safecast.Integer](k ast.BaseKind, r T) Value {
	if isSigned(k) {
		return intValue(k, int64(r), 0)
	}
	return intValue(k, 0, uint64(r)) //nolint:gosec // r is unsigned for unsigned kinds
}

// arithT applies a binary operator in T. The result is computed with
// wrapping and the wrap is detected afterwards.
func arithT[T safecast.Integer](op ast.ExprKind, k ast.BaseKind, x, y Value) (Value, diag.Code) {
	a, b := get[T](x), get[T](y)
	var zero T
	minusOne := zero - 1
	signed := minusOne < zero

	var r T
	switch op {
	case ast.ExprAdd:
		r = a + b
		if (b > zero && r < a) || (b < zero && r > a) {
			return Value{}, diag.EvlOverflow
		}
	case ast.ExprSub:
		r = a - b
		if (b > zero && r > a) || (b < zero && r < a) {
			return Value{}, diag.EvlOverflow
		}
	case ast.ExprMul:
		r = a * b
		if a != zero && (r/a != b || signed && a == minusOne && b != zero && r == b) {
			return Value{}, diag.EvlOverflow
		}
	case ast.ExprDiv:
		if b == zero {
			return Value{}, diag.EvlDivByZero
		}
		// min / -1
		if signed && b == minusOne && a != zero && a == zero-a {
			return Value{}, diag.EvlOverflow
		}
		r = a / b
	case ast.ExprRem:
		if b == zero {
			return Value{}, diag.EvlDivByZero
		}
		if !(signed && b == minusOne) {
			r = a % b
		}
	default:
		return Value{}, diag.EvlTypeMismatch
	}
	return put(k, r), 0
}

func negT[T safecast.Integer](k ast.BaseKind, x Value) (Value, diag.Code) {
	a := get[T](x)
	var zero T
	r := zero - a
	if a != zero && (zero-1 > zero || r == a) {
		return Value{}, diag.EvlOverflow
	}
	return put(k, r), 0
}

func castT[T safecast.Integer](k ast.BaseKind, x Value) (Value, bool) {
	var (
		r   T
		err error
	)
	if isSigned(x.Base) {
		r, err = safecast.Conv[T](x.S)
	} else {
		r, err = safecast.Conv[T](x.U)
	}
	if err != nil {
		return Value{}, false
	}
	return put(k, r), true
}

// castInt converts an integer value to kind k with a range check.
func castInt(k ast.BaseKind, x Value) (Value, bool) {
	ops, ok := intKinds[k]
	if !ok || x.Kind != VKInt {
		return Value{}, false
	}
	return ops.cast(k, x)
}

func arithInt(op ast.ExprKind, k ast.BaseKind, x, y Value) (Value, diag.Code) {
	ops, ok := intKinds[k]
	if !ok {
		return Value{}, diag.EvlTypeMismatch
	}
	return ops.arith(op, k, x, y)
}

func negInt(k ast.BaseKind, x Value) (Value, diag.Code) {
	ops, ok := intKinds[k]
	if !ok {
		return Value{}, diag.EvlTypeMismatch
	}
	return ops.neg(k, x)
}

// literal parses the digits of a number literal as an untyped magnitude.
func literal(digits string, base int, negative bool) (Value, bool) {
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Value{}, false
	}
	if !negative {
		return intValue(ast.BaseUint64, 0, u), true
	}
	switch {
	case u == 1<<63:
		return intValue(ast.BaseSint64, math.MinInt64, 0), true
	case u > 1<<63:
		return Value{}, false
	}
	return intValue(ast.BaseSint64, -int64(u), 0), true // #nosec G115 -- checked above
}
