package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer keeps the last N events in memory.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int  // write position
	full   bool // wrapped at least once
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

// records reports whether the ring keeps events of scope. At LevelError the
// ring still records unit and pass spans so that a failed unit can be dumped.
func (t *RingTracer) records(ev *Event) bool {
	switch {
	case ev.Kind == KindHeartbeat:
		return true
	case t.level == LevelError:
		return ev.Scope <= ScopeUnit
	}
	return t.level.ShouldEmit(ev.Scope)
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.records(ev) {
		return
	}
	t.mu.Lock()
	t.events[t.next] = *ev
	t.next++
	if t.next == len(t.events) {
		t.next, t.full = 0, true
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return slices.Clone(t.events[:t.next])
	}
	return slices.Concat(t.events[t.next:], t.events[:t.next])
}

// Unit returns the stored events of one unit, oldest first.
func (t *RingTracer) Unit(path string) []Event {
	return slices.DeleteFunc(t.Snapshot(), func(ev Event) bool { return ev.Unit != path })
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
