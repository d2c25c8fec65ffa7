package sema

import (
	"context"
	"strconv"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/symbols"
	"ddl/internal/trace"
)

// Unit is a parsed unit whose names are linked and whose types are checked.
type Unit struct {
	AST      *ast.Builder
	Table    *symbols.Table
	Resolver *symbols.Resolver
}

// Complete runs the semantic passes over b in a fixed order: name ids, scope
// and field maps, linking, then, if linking succeeded, alias chains, alias
// loops, struct cycles and domains. Every pass that runs reports all of its
// errors. Complete returns nil and false if any error was reported.
func Complete(ctx context.Context, b *ast.Builder, r diag.Reporter) (*Unit, bool) {
	counter := &errorCounter{next: r}

	var maxID ast.NameID
	pass(ctx, "name-ids", func() bool {
		maxID = symbols.AssignNameIDs(b)
		return true
	})

	var table *symbols.Table
	pass(ctx, "maps", func() bool {
		table = symbols.BuildMaps(b, counter, maxID)
		return counter.errors == 0
	})

	var rs *symbols.Resolver
	pass(ctx, "link", func() bool {
		var ok bool
		rs, ok = symbols.Link(b, table, counter)
		return ok
	})
	if counter.errors > 0 {
		return nil, false
	}

	checks := []struct {
		name string
		run  func(*ast.Builder, diag.Reporter) bool
	}{
		{"aliases", ResolveAliases},
		{"alias-loops", CheckAliasLoops},
		{"structs", CheckStructs},
		{"domains", SetDomains},
	}
	for _, c := range checks {
		pass(ctx, c.name, func() bool { return c.run(b, counter) })
	}
	if counter.errors > 0 {
		return nil, false
	}
	return &Unit{AST: b, Table: table, Resolver: rs}, true
}

func pass(ctx context.Context, name string, run func() bool) {
	_, span := trace.Start(ctx, trace.ScopePass, name)
	ok := run()
	span.End(strconv.FormatBool(ok))
}

type errorCounter struct {
	next   diag.Reporter
	errors int
}

func (c *errorCounter) Report(d diag.Diagnostic) {
	if d.Severity >= diag.SevError {
		c.errors++
	}
	if c.next != nil {
		c.next.Report(d)
	}
}
