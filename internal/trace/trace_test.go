package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStreamTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	Begin(tr, ScopePass, "link", 0).End("ok")
	Begin(tr, ScopeUnit, "unit", 0).End("a.ddl")

	out := buf.String()
	if !strings.Contains(out, "> link") || !strings.Contains(out, "< link (ok)") {
		t.Errorf("missing pass span:\n%s", out)
	}
	if strings.Contains(out, "a.ddl") {
		t.Errorf("unit span emitted at phase level:\n%s", out)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeDriver, "process", 0).WithExtra("files", "2").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Scope != "driver" || ev.Extra["files"] != "2" || ev.Unit != "" {
		t.Errorf("event = %+v", ev)
	}
}

func TestUnitPropagates(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	_, batch := Start(ctx, ScopeDriver, "batch")

	actx := WithUnit(ctx, "a.ddl")
	actx, unit := Start(actx, ScopeUnit, "unit")
	_, pass := Start(actx, ScopePass, "eval")
	PointIn(actx, ScopeStep, "park", "x on y")
	pass.End("")
	unit.End("true")
	batch.End("")

	events := r.Unit("a.ddl")
	if len(events) != 5 {
		t.Fatalf("unit events = %d, want 5: %+v", len(events), events)
	}
	if events[2].Kind != KindPoint || events[2].ParentID != unit.ID() {
		t.Errorf("point = %+v", events[2])
	}
	if got := len(r.Snapshot()); got != 7 {
		t.Errorf("all events = %d, want 7", got)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[a.ddl]") {
		t.Errorf("text dump lacks the unit:\n%s", buf.String())
	}
}

func TestRingWrapsAndKeepsUnitsAtErrorLevel(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeUnit, Name: name})
	}
	r.Emit(&Event{Kind: KindPoint, Scope: ScopeStep, Name: "step"})

	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "b,c,d" {
		t.Errorf("snapshot = %s", got)
	}
}

func TestStartNestsSpans(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := Start(ctx, ScopeDriver, "process")
	_, inner := Start(ctx, ScopePass, "eval")
	inner.End("")
	outer.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %d", len(snap))
	}
	if snap[1].ParentID != outer.ID() || snap[0].ParentID != 0 {
		t.Errorf("parents = %d, %d", snap[0].ParentID, snap[1].ParentID)
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	ctx, span := Start(context.Background(), ScopePass, "parse")
	if span.ID() != 0 || CurrentSpan(ctx) != 0 {
		t.Errorf("disabled span has an id")
	}
	if d := span.WithExtra("k", "v").End(""); d != 0 {
		t.Errorf("disabled span measured %v", d)
	}
	PointIn(ctx, ScopeStep, "park", "")
	StartHeartbeat(Nop, 0, nil).Stop()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHeartbeatReportsProgress(t *testing.T) {
	var out syncBuffer
	tr := NewStreamTracer(&out, LevelPhase, FormatText)
	h := StartHeartbeat(tr, time.Millisecond, func() string { return "1/2 units" })
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "heartbeat (#1 1/2 units)") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if !strings.Contains(out.String(), "heartbeat (#1 1/2 units)") {
		t.Errorf("no heartbeat:\n%s", out.String())
	}
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Errorf("off: %v, %v", tr, err)
	}
	tr, err = New(Config{Level: LevelDebug, Mode: ModeRing, RingSize: 8})
	if _, ok := tr.(*RingTracer); !ok || err != nil {
		t.Errorf("ring: %T, %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "parse", 0).End("")
	if !strings.Contains(buf.String(), "  > parse") {
		t.Errorf("stream output:\n%s", buf.String())
	}
	if _, err := New(Config{Level: LevelPhase, Mode: 9}); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "PHASE": LevelPhase, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel accepted an unknown level")
	}
}
