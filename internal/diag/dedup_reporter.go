package diag

import "ddl/internal/source"

type dedupKey struct {
	code   Code
	file   source.FileID
	start  uint32
	end    uint32
	global bool
	msg    string
}

// DedupReporter wraps another Reporter and suppresses diagnostics with the
// same code, primary span and message. Evaluation uses it because one broken
// declaration may be reached from many constants.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:   d.Code,
		file:   d.Primary.File,
		start:  d.Primary.Start,
		end:    d.Primary.End,
		global: d.Global,
		msg:    d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
