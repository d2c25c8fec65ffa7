package eval

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"ddl/internal/ast"
)

const printOffCap = 200

type ConstResult struct {
	Node  ast.ConstID
	Type  ast.TypeID
	Value Value
}

type LenResult struct {
	Node  ast.LenID
	Value uint64
}

// Result holds the value of every constant and every array length, indexed
// by the Index of their nodes.
type Result struct {
	AST    *ast.Builder
	Consts []ConstResult
	Lens   []LenResult
}

func (ec *evaluator) result() *Result {
	res := &Result{
		AST:    ec.b,
		Consts: make([]ConstResult, len(ec.consts)),
		Lens:   make([]LenResult, len(ec.lens)),
	}
	for i, r := range ec.consts {
		res.Consts[i] = ConstResult{Node: r.cnst, Type: ec.b.Const(r.cnst).Type, Value: r.value}
	}
	for i, r := range ec.lens {
		res.Lens[i] = LenResult{Node: r.len, Value: r.length}
	}
	return res
}

// GetLen returns the value of an array length.
func (res *Result) GetLen(id ast.LenID) uint64 {
	return res.Lens[res.AST.Len(id).Index].Value
}

// Const returns the result of a constant.
func (res *Result) Const(id ast.ConstID) *ConstResult {
	return &res.Consts[res.AST.Const(id).Index]
}

func (res *Result) lenOf(id ast.LenID) (uint64, bool) {
	return res.GetLen(id), true
}

// TypeString renders a type with its evaluated lengths.
func (res *Result) TypeString(t ast.TypeID) string {
	return TypeString(res.AST, t, res.lenOf)
}

// Print writes one "type #name = value" entry per constant.
func (res *Result) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range res.Consts {
		bw.WriteString(res.ConstString(&res.Consts[i]))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (res *Result) ConstString(c *ConstResult) string {
	var sb strings.Builder
	node := res.AST.Const(c.Node)
	sb.WriteString(res.TypeString(c.Type))
	sb.WriteByte(' ')
	sb.WriteString(res.AST.QualifiedName(node.Parent, node.Name.Text))
	sb.WriteString(" = ")
	res.writeValue(&sb, c.Type, c.Value, 0)
	return sb.String()
}

func (res *Result) writeValue(sb *strings.Builder, t ast.TypeID, v Value, off int) {
	pad := strings.Repeat(" ", off)
	s := res.AST.ShapeOf(t)
	typ := res.AST.Type(s.ID)
	switch s.Kind {
	case ast.TypeBase:
		sb.WriteString(pad + "(" + typ.Base.String() + ") ")
		switch v.Kind {
		case VKInt:
			sb.WriteString(v.Decimal())
		case VKText:
			sb.WriteString(strconv.Quote(v.Text))
		case VKIP:
			sb.WriteString(formatIP(v.IP))
		}
	case ast.TypePtr, ast.TypePolyPtr:
		sb.WriteString(pad)
		p := v.Ptr
		switch {
		case p.Null && !p.Type.IsValid():
			sb.WriteString("(??? *) null")
		case p.Null:
			sb.WriteString("(" + res.TypeString(p.Type) + " *) null")
		default:
			sb.WriteString("-> ")
			res.writePtr(sb, p)
		}
	case ast.TypeArray, ast.TypeArrayLen:
		res.writeBlock(sb, v.Block, off, func(int) ast.TypeID { return typ.Elem })
	case ast.TypeStruct:
		st := res.AST.Struct(s.Struct)
		res.writeBlock(sb, v.Block, off, func(i int) ast.TypeID { return res.AST.Field(st.Fields[i]).Type })
	}
}

func (res *Result) writeBlock(sb *strings.Builder, items []Value, off int, typeAt func(int) ast.TypeID) {
	pad := strings.Repeat(" ", off)
	switch {
	case len(items) == 0:
		sb.WriteString(pad + "{ }")
		return
	case off > printOffCap:
		sb.WriteString(pad + "{ ... }")
		return
	case off == 0:
		sb.WriteString("\n {\n")
	default:
		sb.WriteString(pad + " {\n")
	}
	for i, item := range items {
		if i > 0 {
			sb.WriteString(",\n")
		}
		res.writeValue(sb, typeAt(i), item, off+2)
	}
	if off == 0 {
		sb.WriteString("\n }")
	} else {
		sb.WriteString("\n" + pad + " }")
	}
}

// writePtr renders the designated object as #const.field[index].
func (res *Result) writePtr(sb *strings.Builder, p Ptr) {
	node := res.AST.Const(p.Root)
	sb.WriteString(res.AST.QualifiedName(node.Parent, node.Name.Text))
	t := node.Type
	for _, i := range p.Path {
		s := res.AST.ShapeOf(t)
		typ := res.AST.Type(s.ID)
		if s.Kind == ast.TypeStruct {
			f := res.AST.Field(res.AST.Struct(s.Struct).Fields[i])
			sb.WriteString("." + f.Name.Text)
			t = f.Type
			continue
		}
		sb.WriteString("[" + strconv.Itoa(i) + "]")
		t = typ.Elem
	}
}
