package eval

import (
	"slices"
	"strconv"

	"ddl/internal/ast"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	VKInvalid ValueKind = iota
	VKInt
	VKText
	VKIP
	VKPtr
	// VKBlock holds the elements of an array or the fields of a struct.
	VKBlock
)

func (k ValueKind) String() string {
	switch k {
	case VKInt:
		return "int"
	case VKText:
		return "text"
	case VKIP:
		return "ip"
	case VKPtr:
		return "ptr"
	case VKBlock:
		return "block"
	}
	return "invalid"
}

// Value is an evaluated constant or a part of one. Values are never
// modified after they are stored, so blocks may be shared.
type Value struct {
	Kind ValueKind

	Base ast.BaseKind // VKInt
	S    int64        // VKInt, signed kinds
	U    uint64       // VKInt, unsigned kinds

	Text  string
	IP    uint32
	Ptr   Ptr
	Block []Value
}

// Ptr designates an object: a constant and the path of field and element
// indices inside its value. A null pointer is typed when Type is set.
type Ptr struct {
	Null bool
	Root ast.ConstID
	Path []int
	// Type is the designated type, or the element type of a typed null.
	Type ast.TypeID
	// Parent is the type of the object holding the last path step.
	Parent ast.TypeID
}

func (p Ptr) child(index int, typ ast.TypeID, parent ast.TypeID) Ptr {
	path := make([]int, len(p.Path), len(p.Path)+1)
	copy(path, p.Path)
	return Ptr{Root: p.Root, Path: append(path, index), Type: typ, Parent: parent}
}

func (p Ptr) last() int {
	return p.Path[len(p.Path)-1]
}

func (p Ptr) withLast(index int) Ptr {
	path := slices.Clone(p.Path)
	path[len(path)-1] = index
	p.Path = path
	return p
}

// samePrefix reports whether p and q differ at most in the last step.
func (p Ptr) samePrefix(q Ptr) bool {
	if p.Root != q.Root || len(p.Path) != len(q.Path) || len(p.Path) == 0 {
		return false
	}
	return slices.Equal(p.Path[:len(p.Path)-1], q.Path[:len(q.Path)-1])
}

func intValue(k ast.BaseKind, s int64, u uint64) Value {
	return Value{Kind: VKInt, Base: k, S: s, U: u}
}

func textValue(s string) Value { return Value{Kind: VKText, Text: s} }

func ipValue(ip uint32) Value { return Value{Kind: VKIP, IP: ip} }

func ptrValue(p Ptr) Value { return Value{Kind: VKPtr, Ptr: p} }

func blockValue(items []Value) Value { return Value{Kind: VKBlock, Block: items} }

// Decimal renders an integer value.
func (v Value) Decimal() string {
	if isSigned(v.Base) {
		return strconv.FormatInt(v.S, 10)
	}
	return strconv.FormatUint(v.U, 10)
}

// Int64 returns an integer value widened to int64, if it fits.
func (v Value) Int64() (int64, bool) {
	if isSigned(v.Base) {
		return v.S, true
	}
	if v.U > 1<<63-1 {
		return 0, false
	}
	return int64(v.U), true // #nosec G115 -- checked above
}

// Uint64 returns an integer value as uint64, if it is not negative.
func (v Value) Uint64() (uint64, bool) {
	if isSigned(v.Base) {
		if v.S < 0 {
			return 0, false
		}
		return uint64(v.S), true // #nosec G115 -- checked above
	}
	return v.U, true
}

func formatIP(ip uint32) string {
	return strconv.Itoa(int(ip>>24)) + "." + strconv.Itoa(int(ip>>16&0xFF)) + "." +
		strconv.Itoa(int(ip>>8&0xFF)) + "." + strconv.Itoa(int(ip&0xFF))
}
