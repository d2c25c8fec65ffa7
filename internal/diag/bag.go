package diag

import (
	"sort"
	"strings"
)

// DefaultCap is the number of diagnostics a Bag keeps before dropping.
const DefaultCap = 100

type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
	errors  int
}

// NewBag creates a Bag keeping at most max diagnostics; max <= 0 means DefaultCap.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = DefaultCap
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, DefaultCap)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Ошибки учитываются даже после переполнения.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		b.errors++
	}
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если была зарегистрирована хотя бы одна ошибка,
// включая отброшенные после переполнения.
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// ErrorCount counts every reported error, kept or dropped.
func (b *Bag) ErrorCount() int {
	return b.errors
}

// TooMany reports whether diagnostics were dropped because of the cap.
func (b *Bag) TooMany() bool {
	return b.dropped > 0
}

// Dropped returns the number of diagnostics discarded past the cap.
func (b *Bag) Dropped() int {
	return b.dropped
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Lines renders each kept diagnostic with Diagnostic.Line, in report order,
// followed by a "too many errors" line when the cap was hit.
func (b *Bag) Lines() []string {
	out := make([]string, 0, len(b.items)+1)
	for _, d := range b.items {
		out = append(out, d.Line())
	}
	if b.TooMany() {
		out = append(out, "too many errors")
	}
	return out
}

// Contains reports whether some kept diagnostic message contains substr.
func (b *Bag) Contains(substr string) bool {
	for _, d := range b.items {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, start, end, then code.
// Global diagnostics come first.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Global != dj.Global {
			return di.Global
		}
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return di.Code < dj.Code
	})
}
