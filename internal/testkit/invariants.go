// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ddl/internal/ast"
	"ddl/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed unit:
// 1) every declaration span and declared name span is non-empty and lies
// inside the content of a file of fs;
// 2) the name of a declaration lies inside the declaration span;
// 3) expression spans are well-formed and inside their file.
func CheckSpanInvariants(b *ast.Builder, fs *source.FileSet) error {
	if b == nil || fs == nil {
		return fmt.Errorf("nil builder or file set")
	}
	c := checker{fs: fs}

	for i, sc := range b.Scopes.Slice() {
		if sc.Parent == ast.NoScopeID {
			continue // root
		}
		if err := c.decl("scope", i, sc.Span, sc.Name); err != nil {
			return err
		}
	}
	for i, a := range b.Aliases.Slice() {
		if err := c.decl("alias", i, a.Span, a.Name); err != nil {
			return err
		}
	}
	for i, k := range b.Consts.Slice() {
		if err := c.decl("const", i, k.Span, k.Name); err != nil {
			return err
		}
	}
	for i, st := range b.Structs.Slice() {
		if err := c.decl("struct", i, st.Span, st.Name); err != nil {
			return err
		}
	}
	for i, f := range b.Fields.Slice() {
		if err := c.decl("field", i, f.Span, f.Name); err != nil {
			return err
		}
	}
	for i, e := range b.Exprs.Slice() {
		if e.Span.End < e.Span.Start {
			return fmt.Errorf("expr %d: inverted span %v", i+1, e.Span)
		}
		if err := c.inFile(e.Span); err != nil {
			return fmt.Errorf("expr %d: %w", i+1, err)
		}
	}
	return nil
}

type checker struct {
	fs *source.FileSet
}

func (c checker) decl(kind string, idx int, sp source.Span, name ast.Name) error {
	if sp.Empty() || sp.End < sp.Start {
		return fmt.Errorf("%s %d: empty span %v", kind, idx+1, sp)
	}
	if err := c.inFile(sp); err != nil {
		return fmt.Errorf("%s %d: %w", kind, idx+1, err)
	}
	if name.Span.Empty() || name.Span.End < name.Span.Start {
		return fmt.Errorf("%s %d: empty name span %v", kind, idx+1, name.Span)
	}
	if name.Span.File != sp.File || name.Span.Start < sp.Start || name.Span.End > sp.End {
		return fmt.Errorf("%s %d: name span %v is outside %v", kind, idx+1, name.Span, sp)
	}
	return nil
}

func (c checker) inFile(sp source.Span) error {
	if int(sp.File) >= c.fs.Len() {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	size, err := safecast.Conv[uint32](len(c.fs.Get(sp.File).Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > size {
		return fmt.Errorf("span %v ends beyond content (%d bytes)", sp, size)
	}
	return nil
}
