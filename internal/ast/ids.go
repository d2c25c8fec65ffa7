package ast

type (
	ScopeID   uint32
	AliasID   uint32
	ConstID   uint32
	StructID  uint32
	FieldID   uint32
	TypeID    uint32
	ExprID    uint32
	LenID     uint32
	NameRefID uint32

	// NameID is the dense per-spelling key assigned after parsing.
	NameID uint32
)

const (
	NoScopeID   ScopeID   = 0
	NoAliasID   AliasID   = 0
	NoConstID   ConstID   = 0
	NoStructID  StructID  = 0
	NoFieldID   FieldID   = 0
	NoTypeID    TypeID    = 0
	NoExprID    ExprID    = 0
	NoLenID     LenID     = 0
	NoNameRefID NameRefID = 0
	NoNameID    NameID    = 0
)

func (id ScopeID) IsValid() bool   { return id != NoScopeID }
func (id AliasID) IsValid() bool   { return id != NoAliasID }
func (id ConstID) IsValid() bool   { return id != NoConstID }
func (id StructID) IsValid() bool  { return id != NoStructID }
func (id FieldID) IsValid() bool   { return id != NoFieldID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id LenID) IsValid() bool     { return id != NoLenID }
func (id NameRefID) IsValid() bool { return id != NoNameRefID }
func (id NameID) IsValid() bool    { return id != NoNameID }
