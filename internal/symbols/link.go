package symbols

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
)

// Link resolves every reference of the unit: Ref types, constant references
// and domain casts. Qnames are accepted only in struct field defaults.
// It reports all failures and returns false if there was any.
func Link(b *ast.Builder, table *Table, r diag.Reporter) (*Resolver, bool) {
	rs := NewResolver(b, table, r)
	ok := true
	for i := range b.Types.Slice() {
		ok = rs.ResolveType(ast.TypeID(i+1)) && ok // #nosec G115 -- arena index
	}
	for _, c := range b.Consts.Slice() {
		ok = rs.ResolveExpr(c.Value, false) && ok
	}
	for _, f := range b.Fields.Slice() {
		ok = rs.ResolveExpr(f.Default, true) && ok
	}
	for _, l := range b.Lens.Slice() {
		ok = rs.ResolveExpr(l.Expr, false) && ok
	}
	return rs, ok
}
