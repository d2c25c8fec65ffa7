package driver

import (
	"time"

	"ddl/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string // parse, complete, eval
	Status  PhaseStatus
	Elapsed time.Duration
	OK      bool // PhaseEnd only
}

// PhaseObserver receives phase events of a unit. Units processed in
// parallel call it from several goroutines.
type PhaseObserver func(PhaseEvent)

// observe runs one phase, records it in tm and notifies obs.
func observe(obs PhaseObserver, tm *observ.Timer, name string, run func() bool) bool {
	idx := tm.Begin(name)
	if obs != nil {
		obs(PhaseEvent{Name: name, Status: PhaseStart})
	}
	start := time.Now()
	ok := run()
	elapsed := time.Since(start)
	tm.End(idx, ok, "")
	if obs != nil {
		obs(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed, OK: ok})
	}
	return ok
}
