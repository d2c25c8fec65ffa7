package ast

import (
	"ddl/internal/source"
)

type ExprKind uint8

const (
	ExprNull ExprKind = iota
	ExprNumber
	ExprString
	ExprIP
	ExprRef      // constant reference
	ExprDomain   // Alias(x)
	ExprAddress  // &x
	ExprDeref    // *x
	ExprField    // x.f
	ExprPtrField // x->f
	ExprIndex    // x[y]
	ExprNeg      // -x
	ExprPlus     // +x
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprRem
	ExprBraced // { ... }
)

var exprNames = [...]string{
	ExprNull:     "null",
	ExprNumber:   "number",
	ExprString:   "string",
	ExprIP:       "ip",
	ExprRef:      "reference",
	ExprDomain:   "domain",
	ExprAddress:  "address",
	ExprDeref:    "dereference",
	ExprField:    "field",
	ExprPtrField: "pointer field",
	ExprIndex:    "index",
	ExprNeg:      "negation",
	ExprPlus:     "unary plus",
	ExprAdd:      "+",
	ExprSub:      "-",
	ExprMul:      "*",
	ExprDiv:      "/",
	ExprRem:      "%",
	ExprBraced:   "braced list",
}

func (k ExprKind) String() string {
	if int(k) < len(exprNames) {
		return exprNames[k]
	}
	return "unknown"
}

// IsBinary reports the arithmetic operators.
func (k ExprKind) IsBinary() bool {
	return k >= ExprAdd && k <= ExprRem
}

type Expr struct {
	Kind  ExprKind
	Span  source.Span
	Scope ScopeID

	X, Y ExprID // operands; X only for unary and postfix forms
	Name Name   // ExprField, ExprPtrField

	// ExprNumber: digits without suffix and the base (2, 10, 16).
	Digits string
	Base   int
	// ExprString: decoded text.
	Text string
	// ExprIP: the address, most significant octet first.
	IP uint32

	Items []Init // ExprBraced

	Ref    NameRefID // ExprRef, ExprDomain
	Const  ConstID   // resolved ExprRef (not for qnames)
	Alias  AliasID   // resolved ExprDomain
	Domain BaseKind  // integer kind of a resolved domain
}

// Init is one element of a braced list, optionally named (.f = x).
type Init struct {
	Named bool
	Name  Name
	Value ExprID
}
