package symbols

import (
	"cmp"
	"hash/crc32"
	"slices"

	"fortio.org/safecast"

	"ddl/internal/ast"
)

// AssignNameIDs gives every spelling in b a dense id, starting at 1.
// Equal spellings get equal ids. Spellings are ordered by (CRC-32, text),
// so ids depend only on the set of spellings. It returns the largest id,
// or 1 when there are no names, and is meant to run once per unit.
func AssignNameIDs(b *ast.Builder) ast.NameID {
	names := collectNames(b)

	type keyed struct {
		hash uint32
		text string
	}
	keys := make([]keyed, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n.Text]; ok {
			continue
		}
		seen[n.Text] = struct{}{}
		keys = append(keys, keyed{hash: crc32.ChecksumIEEE([]byte(n.Text)), text: n.Text})
	}
	slices.SortFunc(keys, func(a, b keyed) int {
		if c := cmp.Compare(a.hash, b.hash); c != 0 {
			return c
		}
		return cmp.Compare(a.text, b.text)
	})

	ids := make(map[string]ast.NameID, len(keys))
	for i, k := range keys {
		id, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(err)
		}
		ids[k.text] = ast.NameID(id)
	}
	for _, n := range names {
		n.ID = ids[n.Text]
	}
	return max(ast.NameID(len(keys)), 1) // #nosec G115 -- bounded by the loop above
}

// collectNames returns a pointer to every identifier occurrence in b.
func collectNames(b *ast.Builder) []*ast.Name {
	var out []*ast.Name
	scopes := b.Scopes.Slice()
	for i := range scopes {
		if i == 0 {
			continue // root
		}
		out = append(out, &scopes[i].Name)
	}
	aliases := b.Aliases.Slice()
	for i := range aliases {
		out = append(out, &aliases[i].Name)
	}
	consts := b.Consts.Slice()
	for i := range consts {
		out = append(out, &consts[i].Name)
	}
	structs := b.Structs.Slice()
	for i := range structs {
		out = append(out, &structs[i].Name)
	}
	fields := b.Fields.Slice()
	for i := range fields {
		out = append(out, &fields[i].Name)
	}
	refs := b.NameRefs.Slice()
	for i := range refs {
		for j := range refs[i].Names {
			out = append(out, &refs[i].Names[j])
		}
	}
	exprs := b.Exprs.Slice()
	for i := range exprs {
		e := &exprs[i]
		switch e.Kind {
		case ast.ExprField, ast.ExprPtrField:
			out = append(out, &e.Name)
		case ast.ExprBraced:
			for j := range e.Items {
				if e.Items[j].Named {
					out = append(out, &e.Items[j].Name)
				}
			}
		}
	}
	return out
}
