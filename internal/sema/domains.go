package sema

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
)

// SetDomains checks that every domain cast names an integer type and stores
// that kind on the expression.
func SetDomains(b *ast.Builder, r diag.Reporter) bool {
	ok := true
	exprs := b.Exprs.Slice()
	for i := range exprs {
		e := &exprs[i]
		if e.Kind != ast.ExprDomain || !e.Alias.IsValid() {
			continue
		}
		a := b.Alias(e.Alias)
		shape := b.ShapeOf(a.Result)
		if shape.Kind == ast.TypeBase {
			if base := b.Type(shape.ID).Base; base.IsIntegral() {
				e.Domain = base
				continue
			}
		}
		diag.ReportError(r, diag.TypBadDomain, e.Span,
			"bad domain type: "+b.QualifiedName(a.Parent, a.Name.Text)).
			WithNote(a.Span, "the type is declared here").
			Emit()
		ok = false
	}
	return ok
}
