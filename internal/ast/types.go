package ast

import "ddl/internal/source"

// BaseKind enumerates the built-in types.
type BaseKind uint8

const (
	BaseNone BaseKind = iota
	BaseSint
	BaseUint
	BaseUlen
	BaseSint8
	BaseUint8
	BaseSint16
	BaseUint16
	BaseSint32
	BaseUint32
	BaseSint64
	BaseUint64
	BaseText
	BaseIP
)

var baseNames = [...]string{
	BaseNone:   "none",
	BaseSint:   "sint",
	BaseUint:   "uint",
	BaseUlen:   "ulen",
	BaseSint8:  "sint8",
	BaseUint8:  "uint8",
	BaseSint16: "sint16",
	BaseUint16: "uint16",
	BaseSint32: "sint32",
	BaseUint32: "uint32",
	BaseSint64: "sint64",
	BaseUint64: "uint64",
	BaseText:   "text",
	BaseIP:     "ip",
}

func (k BaseKind) String() string {
	if int(k) < len(baseNames) {
		return baseNames[k]
	}
	return "unknown"
}

// IsIntegral reports the eleven integer kinds.
func (k BaseKind) IsIntegral() bool {
	return k >= BaseSint && k <= BaseUint64
}

// TypeKind tags the Type union.
type TypeKind uint8

const (
	TypeBase TypeKind = iota
	TypePtr
	TypePolyPtr
	TypeArray
	TypeArrayLen
	TypeRef
	TypeStruct
)

type Type struct {
	Kind  TypeKind
	Span  source.Span
	Scope ScopeID

	Base BaseKind  // TypeBase
	Elem TypeID    // TypePtr, TypeArray, TypeArrayLen
	List []TypeID  // TypePolyPtr
	Len  LenID     // TypeArrayLen
	Ref  NameRefID // TypeRef

	// TypeStruct: the struct; TypeRef: the resolved struct, if any.
	Struct StructID
	// TypeRef: the resolved alias, if any.
	Alias AliasID
}

// Len is an array length expression, evaluated once to a ulen value.
type Len struct {
	Expr  ExprID
	Scope ScopeID
	Span  source.Span
	Index int // slot in the evaluation length table
}
