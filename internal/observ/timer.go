// Package observ records per-unit phase timings.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed pipeline phase of a unit.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	OK    bool
	Note  string
}

// Timer collects phases in the order they began. It is not safe for
// concurrent use; every unit owns its timer.
type Timer struct {
	phases []Phase
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, ok bool, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.OK = ok
	p.Note = note
}

// Len returns the number of recorded phases.
func (t *Timer) Len() int { return len(t.phases) }

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	return t.Report().String()
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	OK         bool    `json:"ok"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает фазы одного юнита и их суммарное время.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report снимает текущее состояние таймера.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		r.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			OK:         p.OK,
			Note:       p.Note,
		}
	}
	r.TotalMS = millis(total)
	return r
}

// Failed returns the name of the first phase that did not succeed.
func (r Report) Failed() (string, bool) {
	for _, p := range r.Phases {
		if !p.OK {
			return p.Name, true
		}
	}
	return "", false
}

func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		status := "ok"
		if !p.OK {
			status = "failed"
		}
		fmt.Fprintf(&sb, "  %-10s %7.2f ms  %s", p.Name, p.DurationMS, status)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-10s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
