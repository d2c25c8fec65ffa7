package ast

import "ddl/internal/source"

// Scope is a named nested scope. The root scope has no name and no parent.
// A struct owns a field scope named like the struct.
type Scope struct {
	Name   Name
	Parent ScopeID
	Depth  int
	Struct StructID // owner when this is a struct field scope
	Span   source.Span
	Body   Body
}

// Body lists the declarations made directly in one scope.
type Body struct {
	Aliases []AliasID
	Consts  []ConstID
	Structs []StructID
	Scopes  []ScopeID
}

type Alias struct {
	Name   Name
	Type   TypeID
	Parent ScopeID
	Span   source.Span
	// Result is the final non-alias type after alias resolution.
	Result TypeID
}

type Const struct {
	Name   Name
	Type   TypeID
	Value  ExprID // NoExprID: default construction
	Parent ScopeID
	Span   source.Span
	Index  int // slot in the evaluation const table
}

type Struct struct {
	Name       Name
	Fields     []FieldID
	Parent     ScopeID
	FieldScope ScopeID
	Span       source.Span
	DepIndex   int
}

type Field struct {
	Name    Name
	Type    TypeID
	Default ExprID // may contain qnames
	Struct  StructID
	Pos     int // position in Struct.Fields
	Span    source.Span
}
