package ast

import (
	"strings"

	"ddl/internal/source"
)

type Hints struct{ Decls, Types, Exprs uint }

// Builder owns every node of one compilation unit.
// All links between nodes are IDs into its arenas.
type Builder struct {
	Scopes   *Arena[Scope]
	Aliases  *Arena[Alias]
	Consts   *Arena[Const]
	Structs  *Arena[Struct]
	Fields   *Arena[Field]
	Types    *Arena[Type]
	Exprs    *Arena[Expr]
	Lens     *Arena[Len]
	NameRefs *Arena[NameRef]

	Root ScopeID
}

func NewBuilder(hints Hints) *Builder {
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	b := &Builder{
		Scopes:   NewArena[Scope](hints.Decls / 4),
		Aliases:  NewArena[Alias](hints.Decls),
		Consts:   NewArena[Const](hints.Decls),
		Structs:  NewArena[Struct](hints.Decls / 4),
		Fields:   NewArena[Field](hints.Decls),
		Types:    NewArena[Type](hints.Types),
		Exprs:    NewArena[Expr](hints.Exprs),
		Lens:     NewArena[Len](hints.Decls / 4),
		NameRefs: NewArena[NameRef](hints.Exprs / 2),
	}
	b.Root = ScopeID(b.Scopes.Allocate(Scope{}))
	return b
}

func (b *Builder) Scope(id ScopeID) *Scope       { return b.Scopes.Get(uint32(id)) }
func (b *Builder) Alias(id AliasID) *Alias       { return b.Aliases.Get(uint32(id)) }
func (b *Builder) Const(id ConstID) *Const       { return b.Consts.Get(uint32(id)) }
func (b *Builder) Struct(id StructID) *Struct    { return b.Structs.Get(uint32(id)) }
func (b *Builder) Field(id FieldID) *Field       { return b.Fields.Get(uint32(id)) }
func (b *Builder) Type(id TypeID) *Type          { return b.Types.Get(uint32(id)) }
func (b *Builder) Expr(id ExprID) *Expr          { return b.Exprs.Get(uint32(id)) }
func (b *Builder) Len(id LenID) *Len             { return b.Lens.Get(uint32(id)) }
func (b *Builder) NameRef(id NameRefID) *NameRef { return b.NameRefs.Get(uint32(id)) }

// NewScope opens a named child scope of parent.
func (b *Builder) NewScope(parent ScopeID, name Name, sp source.Span) ScopeID {
	depth := b.Scope(parent).Depth + 1
	id := ScopeID(b.Scopes.Allocate(Scope{Name: name, Parent: parent, Depth: depth, Span: sp}))
	p := b.Scope(parent)
	p.Body.Scopes = append(p.Body.Scopes, id)
	return id
}

func (b *Builder) NewAlias(scope ScopeID, name Name, typ TypeID, sp source.Span) AliasID {
	id := AliasID(b.Aliases.Allocate(Alias{Name: name, Type: typ, Parent: scope, Span: sp}))
	s := b.Scope(scope)
	s.Body.Aliases = append(s.Body.Aliases, id)
	return id
}

func (b *Builder) NewConst(scope ScopeID, name Name, typ TypeID, value ExprID, sp source.Span) ConstID {
	index := int(b.Consts.Len())
	id := ConstID(b.Consts.Allocate(Const{Name: name, Type: typ, Value: value, Parent: scope, Span: sp, Index: index}))
	s := b.Scope(scope)
	s.Body.Consts = append(s.Body.Consts, id)
	return id
}

// NewStruct declares a struct in scope together with its field scope.
func (b *Builder) NewStruct(scope ScopeID, name Name, sp source.Span) StructID {
	id := StructID(b.Structs.Allocate(Struct{Name: name, Parent: scope, Span: sp}))
	fieldScope := b.NewScope(scope, name, sp)
	b.Scope(fieldScope).Struct = id
	b.Struct(id).FieldScope = fieldScope
	s := b.Scope(scope)
	s.Body.Structs = append(s.Body.Structs, id)
	return id
}

func (b *Builder) AddField(st StructID, name Name, typ TypeID, def ExprID, sp source.Span) FieldID {
	pos := len(b.Struct(st).Fields)
	id := FieldID(b.Fields.Allocate(Field{Name: name, Type: typ, Default: def, Struct: st, Pos: pos, Span: sp}))
	s := b.Struct(st)
	s.Fields = append(s.Fields, id)
	return id
}

func (b *Builder) NewBaseType(scope ScopeID, kind BaseKind, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypeBase, Base: kind, Scope: scope, Span: sp}))
}

func (b *Builder) NewPtrType(scope ScopeID, elem TypeID, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypePtr, Elem: elem, Scope: scope, Span: sp}))
}

func (b *Builder) NewPolyPtrType(scope ScopeID, list []TypeID, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypePolyPtr, List: list, Scope: scope, Span: sp}))
}

func (b *Builder) NewArrayType(scope ScopeID, elem TypeID, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypeArray, Elem: elem, Scope: scope, Span: sp}))
}

// NewArrayLenType also allocates the Len node for the length expression.
func (b *Builder) NewArrayLenType(scope ScopeID, elem TypeID, length ExprID, sp source.Span) TypeID {
	index := int(b.Lens.Len())
	lenID := LenID(b.Lens.Allocate(Len{Expr: length, Scope: scope, Span: b.Expr(length).Span, Index: index}))
	return TypeID(b.Types.Allocate(Type{Kind: TypeArrayLen, Elem: elem, Len: lenID, Scope: scope, Span: sp}))
}

func (b *Builder) NewRefType(scope ScopeID, ref NameRefID, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypeRef, Ref: ref, Scope: scope, Span: sp}))
}

func (b *Builder) NewStructType(scope ScopeID, st StructID, sp source.Span) TypeID {
	return TypeID(b.Types.Allocate(Type{Kind: TypeStruct, Struct: st, Scope: scope, Span: sp}))
}

func (b *Builder) NewExpr(kind ExprKind, scope ScopeID, sp source.Span) ExprID {
	return ExprID(b.Exprs.Allocate(Expr{Kind: kind, Scope: scope, Span: sp}))
}

func (b *Builder) NewNameRef(ref NameRef) NameRefID {
	return NameRefID(b.NameRefs.Allocate(ref))
}

// ScopePath returns the scopes from the root down to id, both included.
func (b *Builder) ScopePath(id ScopeID) []ScopeID {
	var path []ScopeID
	for ; id.IsValid(); id = b.Scope(id).Parent {
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// QualifiedName renders #scope#...#name for a declaration in scope.
func (b *Builder) QualifiedName(scope ScopeID, name string) string {
	var sb strings.Builder
	for _, s := range b.ScopePath(scope)[1:] {
		sb.WriteByte('#')
		sb.WriteString(b.Scope(s).Name.Text)
	}
	sb.WriteByte('#')
	sb.WriteString(name)
	return sb.String()
}

// Shape is a type seen through alias references.
type Shape struct {
	Kind   TypeKind // never TypeRef for a linked unit
	ID     TypeID   // the concrete type node
	Struct StructID // TypeStruct only
}

// ShapeOf follows alias references to the concrete type. A reference that
// names a struct reports TypeStruct. Unresolved references stay TypeRef.
func (b *Builder) ShapeOf(id TypeID) Shape {
	for range b.Aliases.Len() + 1 {
		t := b.Type(id)
		if t == nil {
			return Shape{Kind: TypeRef, ID: id}
		}
		switch {
		case t.Kind == TypeStruct:
			return Shape{Kind: TypeStruct, ID: id, Struct: t.Struct}
		case t.Kind != TypeRef:
			return Shape{Kind: t.Kind, ID: id}
		case t.Struct.IsValid():
			return Shape{Kind: TypeStruct, ID: id, Struct: t.Struct}
		case t.Alias.IsValid() && b.Alias(t.Alias).Result.IsValid():
			id = b.Alias(t.Alias).Result
		case t.Alias.IsValid():
			id = b.Alias(t.Alias).Type
		default:
			return Shape{Kind: TypeRef, ID: id}
		}
	}
	return Shape{Kind: TypeRef, ID: id}
}
