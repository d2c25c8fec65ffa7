package driver

import (
	"context"
	"strconv"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/parser"
	"ddl/internal/source"
	"ddl/internal/trace"
)

// parseFiles parses files in order into the root scope of b.
func parseFiles(ctx context.Context, b *ast.Builder, files []*source.File, rep diag.Reporter, include parser.IncludeFunc) bool {
	_, span := trace.Start(ctx, trace.ScopePass, "parse")
	errs := 0
	for _, f := range files {
		errs += parser.ParseFile(f, b, b.Root, parser.Options{Reporter: rep, Include: include}).Errors
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	span.End(strconv.Itoa(errs))
	return errs == 0
}
