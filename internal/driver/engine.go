package driver

import (
	"context"
	"strconv"
	"strings"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/eval"
	"ddl/internal/observ"
	"ddl/internal/parser"
	"ddl/internal/sema"
	"ddl/internal/source"
	"ddl/internal/trace"
)

// Result is the outcome of one unit. Eval is nil unless every phase
// succeeded; a unit served from the cache has only Printed.
type Result struct {
	Path    string
	FileSet *source.FileSet
	Bag     *diag.Bag
	Unit    *sema.Unit
	Eval    *eval.Result
	Files   []*source.File // every file of the unit in parse order
	Printed string         // Eval.Print output
	Cached  bool
	Timings observ.Report // empty for cached units
}

// OK reports whether the unit was evaluated without errors.
func (r *Result) OK() bool {
	return r != nil && !r.Bag.HasErrors() && (r.Eval != nil || r.Cached)
}

// Diagnostics renders the unit's diagnostics one per line, in report order,
// as "error CODE path:line:col message".
func (r *Result) Diagnostics(withNotes bool) string {
	if r == nil || r.Bag == nil {
		return ""
	}
	return diag.FormatGolden(r.Bag.Items(), r.FileSet, withNotes)
}

// run parses files, completes and evaluates the unit into res.
func run(ctx context.Context, files []*source.File, include parser.IncludeFunc, opts Options, res *Result) {
	ctx, span := trace.Start(trace.WithUnit(ctx, res.Path), trace.ScopeUnit, "unit")
	tm := observ.NewTimer()
	defer func() {
		res.Timings = tm.Report()
		span.End(strconv.FormatBool(res.OK()))
	}()

	rep := diag.BagReporter{Bag: res.Bag}
	b := ast.NewBuilder(ast.Hints{})
	if !observe(opts.Observer, tm, "parse", func() bool {
		return parseFiles(ctx, b, files, rep, include) && !res.Bag.HasErrors()
	}) {
		return
	}

	var u *sema.Unit
	if !observe(opts.Observer, tm, "complete", func() bool {
		var ok bool
		u, ok = sema.Complete(ctx, b, rep)
		return ok
	}) {
		return
	}
	res.Unit = u

	var er *eval.Result
	if !observe(opts.Observer, tm, "eval", func() bool {
		var ok bool
		er, ok = eval.Process(ctx, u, rep, eval.Options{MemCap: opts.MemCap})
		return ok
	}) {
		return
	}
	res.Eval = er

	var sb strings.Builder
	_ = er.Print(&sb) // strings.Builder does not fail
	res.Printed = sb.String()
}

// TextEngine processes a unit held in memory. Pretext, if any, is parsed
// first as its own file into the same root scope. Include directives are
// rejected.
type TextEngine struct {
	Text    string
	Pretext string
	Options Options
}

const (
	textName    = "<text>"
	pretextName = "<pretext>"
)

func (e *TextEngine) Process(ctx context.Context) *Result {
	opts := e.Options.withDefaults()
	fs := source.NewFileSet()
	res := &Result{Path: textName, FileSet: fs, Bag: diag.NewBag(opts.ErrorCap)}

	var files []*source.File
	if e.Pretext != "" {
		files = append(files, fs.Get(fs.AddVirtual(pretextName, []byte(e.Pretext))))
	}
	files = append(files, fs.Get(fs.AddVirtual(textName, []byte(e.Text))))
	res.Files = files
	run(ctx, files, nil, opts, res)
	return res
}
