package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat reports batch progress at a fixed interval, so a stuck unit
// shows up as heartbeats with a progress count that stops moving.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	progress func() string
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval <= 0.
// progress, if not nil, supplies the detail of every beat.
func StartHeartbeat(tracer Tracer, interval time.Duration, progress func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		progress: progress,
		done:     make(chan struct{}),
	}
	h.wg.Add(1)
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			detail := "#" + strconv.Itoa(n)
			if h.progress != nil {
				detail += " " + h.progress()
			}
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: detail,
			})
		}
	}
}

// Stop ends the heartbeat goroutine and waits for it. Safe on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
