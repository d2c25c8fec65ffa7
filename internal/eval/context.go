package eval

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/sema"
	"ddl/internal/source"
	"ddl/internal/stepeval"
	"ddl/internal/symbols"
	"ddl/internal/trace"
)

// DefaultMemCap bounds the number of value slots one evaluation allocates.
const DefaultMemCap = 1_000_000

// maxNesting bounds the depth of constructed values.
const maxNesting = 1000

type Options struct {
	MemCap int // value slots; 0 means DefaultMemCap
}

type recState uint8

const (
	recPending recState = iota
	recDone
	recFailed
)

// record is one constant or one array length.
type record struct {
	cnst  ast.ConstID
	len   ast.LenID
	scope ast.ScopeID
	span  source.Span
	name  string

	state  recState
	value  Value  // constant
	length uint64 // length

	gate  *stepeval.Gate
	waits *record // the record this one is parked on
}

// boundCheck is an element index whose array belongs to an unfinished
// constant; it is checked when that constant is done.
type boundCheck struct {
	ptr  Ptr // the array element, last path step is the index
	span source.Span
	code diag.Code
}

type evaluator struct {
	b      *ast.Builder
	table  *symbols.Table
	rs     *symbols.Resolver
	rep    diag.Reporter
	tracer trace.Tracer
	span   uint64
	unit   string
	memCap int

	ev     *stepeval.Eval
	consts []*record
	lens   []*record
	slots  int
	errors int

	// current attempt
	cur     *record
	wait    *record
	buf     []diag.Diagnostic
	pending int
	checks  []boundCheck
	depth   int
}

// Process evaluates every constant and every array length of u. It returns
// nil and false if any error was reported; partial results are dropped.
func Process(ctx context.Context, u *sema.Unit, r diag.Reporter, opts Options) (*Result, bool) {
	if opts.MemCap <= 0 {
		opts.MemCap = DefaultMemCap
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "eval")
	ec := &evaluator{
		b:      u.AST,
		table:  u.Table,
		rs:     u.Resolver,
		rep:    diag.NewDedupReporter(r),
		tracer: trace.FromContext(ctx),
		span:   trace.CurrentSpan(ctx),
		unit:   trace.UnitOf(ctx),
		memCap: opts.MemCap,
		ev:     stepeval.New(),
	}
	ec.schedule()
	ec.ev.Run()

	st := ec.ev.Stats()
	span.WithExtra("steps", strconv.Itoa(st.Ran)).
		WithExtra("finalized", strconv.Itoa(st.Finalized)).
		WithExtra("slots", strconv.Itoa(ec.slots))
	span.End(strconv.FormatBool(ec.errors == 0))

	if ec.errors > 0 {
		return nil, false
	}
	return ec.result(), true
}

func (ec *evaluator) schedule() {
	b := ec.b
	ec.consts = make([]*record, b.Consts.Len())
	for i := range ec.consts {
		c := b.Const(ast.ConstID(i + 1))
		ec.consts[c.Index] = &record{
			cnst:  ast.ConstID(i + 1),
			scope: c.Parent,
			span:  c.Span,
			name:  b.QualifiedName(c.Parent, c.Name.Text),
		}
	}
	ec.lens = make([]*record, b.Lens.Len())
	for i := range ec.lens {
		l := b.Len(ast.LenID(i + 1))
		ec.lens[l.Index] = &record{
			len:   ast.LenID(i + 1),
			scope: l.Scope,
			span:  l.Span,
			name:  "length " + b.QualifiedName(l.Scope, "[]"),
		}
	}

	for _, r := range slices.Concat(ec.lens, ec.consts) {
		r.gate = ec.ev.CreateGateFor(stepeval.Step{}, stepeval.Step{
			Run: func(_ *stepeval.Eval, opener stepeval.ID) { ec.attempt(r, opener) },
		})
	}
}

// attempt evaluates r. If r needs an unfinished record, the attempt is
// discarded and retried when that record's gate opens; the retry locks
// opener, so r's own gate stays closed meanwhile.
func (ec *evaluator) attempt(r *record, opener stepeval.ID) {
	ec.cur, ec.wait = r, nil
	ec.buf, ec.pending, ec.checks, ec.depth = ec.buf[:0], 0, ec.checks[:0], 0

	var ok bool
	if r.cnst.IsValid() {
		r.value, ok = ec.evalConst(r.cnst)
	} else {
		r.length, ok = ec.evalLen(r.len)
	}

	if w := ec.wait; w != nil {
		r.waits = w
		trace.Point(ec.tracer, trace.ScopeStep, "park", r.name+" on "+w.name, ec.span, ec.unit)
		w.gate.CreateStep(stepeval.Step{
			Run:   func(_ *stepeval.Eval, dep stepeval.ID) { ec.attempt(r, dep) },
			Final: func(*stepeval.Eval) { ec.unfinished(r) },
		}, opener)
		ec.cur, ec.wait = nil, nil
		return
	}

	r.waits = nil
	ec.slots += ec.pending
	for _, d := range ec.buf {
		ec.report(d)
	}
	if ok {
		r.state = recDone
	} else {
		r.state = recFailed
	}
	for _, c := range ec.checks {
		root := ec.constRec(c.ptr.Root)
		root.gate.CreateStep(stepeval.Step{
			Run: func(*stepeval.Eval, stepeval.ID) { ec.checkBound(c) },
		}, 0)
	}
	ec.cur = nil
}

// unfinished finalizes a record that never completed. Only records on a
// waiting cycle are reported; the rest wait on them.
func (ec *evaluator) unfinished(r *record) {
	r.state = recFailed
	w := r.waits
	for range len(ec.consts) + len(ec.lens) {
		if w == nil {
			return
		}
		if w == r {
			if r.cnst.IsValid() {
				ec.report(diag.NewError(diag.EvlRecursive, r.span, "recursive constant: "+r.name))
			} else {
				ec.report(diag.NewError(diag.EvlRecursive, r.span, "recursive array length"))
			}
			return
		}
		w = w.waits
	}
}

func (ec *evaluator) report(d diag.Diagnostic) {
	ec.errors++
	if ec.rep != nil {
		ec.rep.Report(d)
	}
}

// errorf records an error of the current attempt. It is dropped if the
// attempt is parked.
func (ec *evaluator) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	ec.buf = append(ec.buf, diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

// parked reports whether the current attempt waits on another record.
func (ec *evaluator) parked() bool { return ec.wait != nil }

func (ec *evaluator) constRec(id ast.ConstID) *record {
	return ec.consts[ec.b.Const(id).Index]
}

// needConst returns the value of a constant, parking the attempt if it is
// not computed yet. A failed constant fails silently: its error is reported.
func (ec *evaluator) needConst(id ast.ConstID) (Value, bool) {
	r := ec.constRec(id)
	switch r.state {
	case recDone:
		return r.value, true
	case recPending:
		ec.park(r)
	}
	return Value{}, false
}

func (ec *evaluator) needLen(id ast.LenID) (uint64, bool) {
	r := ec.lens[ec.b.Len(id).Index]
	switch r.state {
	case recDone:
		return r.length, true
	case recPending:
		ec.park(r)
	}
	return 0, false
}

func (ec *evaluator) park(r *record) {
	if ec.wait == nil {
		ec.wait = r
		r.gate.Boost()
	}
}

// alloc accounts n value slots against the memory guard.
func (ec *evaluator) alloc(n int, sp source.Span) bool {
	if n > ec.memCap-ec.slots-ec.pending {
		ec.errorf(diag.EvlMemGuard, sp, "memory guard exceeded: %d value slots", ec.slots+ec.pending+n)
		return false
	}
	ec.pending += n
	return true
}

func (ec *evaluator) evalConst(id ast.ConstID) (Value, bool) {
	c := ec.b.Const(id)
	if c.Value.IsValid() {
		return ec.value(c.Value, c.Type)
	}
	return ec.defaultValue(c.Type, c.Span)
}

func (ec *evaluator) evalLen(id ast.LenID) (uint64, bool) {
	l := ec.b.Len(id)
	v, ok := ec.intOf(l.Expr, ast.BaseUlen)
	if !ok {
		return 0, false
	}
	if v.U > uint64(ec.memCap) { // #nosec G115 -- memCap is positive
		ec.errorf(diag.EvlMemGuard, l.Span, "array length %d exceeds the memory guard %d", v.U, ec.memCap)
		return 0, false
	}
	return v.U, true
}

// checkBound runs a deferred index check once the array's constant is done.
func (ec *evaluator) checkBound(c boundCheck) {
	root := ec.constRec(c.ptr.Root)
	if root.state != recDone {
		return
	}
	v := root.value
	for _, i := range c.ptr.Path[:len(c.ptr.Path)-1] {
		if v.Kind != VKBlock || i < 0 || i >= len(v.Block) {
			return
		}
		v = v.Block[i]
	}
	if msg, bad := boundError(c.ptr.last(), len(v.Block), false); bad {
		ec.report(diag.NewError(c.code, c.span, msg))
	}
}

func boundError(index, length int, read bool) (string, bool) {
	switch {
	case index < 0, index > length:
		return fmt.Sprintf("index %d is out of range [0, %d]", index, length), true
	case read && index == length:
		return fmt.Sprintf("index %d is out of range [0, %d)", index, length), true
	}
	return "", false
}
