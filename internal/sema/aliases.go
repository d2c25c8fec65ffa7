package sema

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
)

// ResolveAliases sets Alias.Result to the final non-alias type of every
// alias. Every alias on a walked chain gets the result, not only the head.
// A chain that comes back to itself is a cyclic type definition; all of its
// members are left unresolved and reported once.
func ResolveAliases(b *ast.Builder, r diag.Reporter) bool {
	ok := true
	failed := make(map[ast.AliasID]bool)
	for i := range b.Aliases.Slice() {
		start := ast.AliasID(i + 1) // #nosec G115 -- arena index
		if b.Alias(start).Result.IsValid() || failed[start] {
			continue
		}
		if !resolveChain(b, r, start, failed) {
			ok = false
		}
	}
	return ok
}

func resolveChain(b *ast.Builder, r diag.Reporter, start ast.AliasID, failed map[ast.AliasID]bool) bool {
	// метки живут только в пределах одного обхода
	onChain := make(map[ast.AliasID]bool)
	var chain []ast.AliasID
	final := ast.NoTypeID

	for cur := start; ; {
		if failed[cur] {
			markFailed(chain, failed)
			return false
		}
		if onChain[cur] {
			a := b.Alias(cur)
			diag.ReportError(r, diag.TypCyclicType, a.Name.Span,
				"cyclic type definition: "+b.QualifiedName(a.Parent, a.Name.Text)).
				WithNote(b.Alias(start).Name.Span, "the chain starts here").
				Emit()
			markFailed(chain, failed)
			return false
		}
		onChain[cur] = true
		chain = append(chain, cur)

		a := b.Alias(cur)
		if a.Result.IsValid() {
			final = a.Result
			break
		}
		next := nextAlias(b, a.Type)
		if !next.IsValid() {
			final = a.Type
			break
		}
		cur = next
	}

	for _, id := range chain {
		b.Alias(id).Result = final
	}
	return true
}

// nextAlias returns the alias a Ref type names directly.
func nextAlias(b *ast.Builder, id ast.TypeID) ast.AliasID {
	t := b.Type(id)
	if t.Kind == ast.TypeRef {
		return t.Alias
	}
	return ast.NoAliasID
}

func markFailed(chain []ast.AliasID, failed map[ast.AliasID]bool) {
	for _, id := range chain {
		failed[id] = true
	}
}

// CheckAliasLoops reports aliases whose final type contains the alias itself
// through pointers or arrays, like "type L = L*;". A struct in between breaks
// the loop.
func CheckAliasLoops(b *ast.Builder, r diag.Reporter) bool {
	ok := true
	for i := range b.Aliases.Slice() {
		id := ast.AliasID(i + 1) // #nosec G115 -- arena index
		a := b.Alias(id)
		if !a.Result.IsValid() {
			continue
		}
		seen := make(map[ast.TypeID]bool)
		if containsAlias(b, a.Result, id, seen) {
			diag.Errorf(r, diag.TypCyclicType, a.Name.Span,
				"cyclic type definition: %s contains itself", b.QualifiedName(a.Parent, a.Name.Text))
			ok = false
		}
	}
	return ok
}

func containsAlias(b *ast.Builder, id ast.TypeID, target ast.AliasID, seen map[ast.TypeID]bool) bool {
	if !id.IsValid() || seen[id] {
		return false
	}
	seen[id] = true
	t := b.Type(id)
	switch t.Kind {
	case ast.TypePtr, ast.TypeArray, ast.TypeArrayLen:
		return containsAlias(b, t.Elem, target, seen)
	case ast.TypePolyPtr:
		for _, el := range t.List {
			if containsAlias(b, el, target, seen) {
				return true
			}
		}
	case ast.TypeRef:
		if !t.Alias.IsValid() {
			return false // a struct or unresolved
		}
		if t.Alias == target {
			return true
		}
		return containsAlias(b, b.Alias(t.Alias).Result, target, seen)
	}
	return false
}
