package stepeval

import (
	"slices"
)

// ID identifies a step. The zero ID means "no step".
type ID uint32

func (id ID) IsValid() bool { return id != 0 }

// Step is one unit of deferred work. Run receives the step's dependency,
// so it can hang further steps in front of it. Final is called, if set,
// for a step that never ran.
type Step struct {
	Run   func(ev *Eval, dep ID)
	Final func(ev *Eval)
}

type status uint8

const (
	statusReady status = iota
	statusLocked
	statusGated
	statusRunning
)

type node struct {
	step   Step
	dep    ID
	locks  int
	status status
	stamp  uint32 // bumped on every push; older ready entries are stale
}

type readyEntry struct {
	id    ID
	stamp uint32
}

// Stats counts scheduler work.
type Stats struct {
	Created   int
	Ran       int
	Finalized int
}

// Eval owns the steps and gates of one evaluation.
type Eval struct {
	nextID ID
	nodes  map[ID]*node
	ready  []readyEntry // stack: the last entry runs first
	gates  []*Gate
	stats  Stats
}

func New() *Eval {
	return &Eval{nodes: make(map[ID]*node)}
}

// Stats returns the counters so far.
func (ev *Eval) Stats() Stats { return ev.stats }

// CreateStep schedules step in front of dep: dep will not run before it.
func (ev *Eval) CreateStep(step Step, dep ID) ID {
	id := ev.newNode(step, dep, statusReady)
	ev.push(id)
	ev.lock(dep)
	return id
}

func (ev *Eval) newNode(step Step, dep ID, st status) ID {
	ev.nextID++
	ev.nodes[ev.nextID] = &node{step: step, dep: dep, status: st}
	ev.stats.Created++
	return ev.nextID
}

func (ev *Eval) push(id ID) {
	n := ev.nodes[id]
	n.status = statusReady
	n.stamp++
	ev.ready = append(ev.ready, readyEntry{id: id, stamp: n.stamp})
}

// pop returns the next runnable step, skipping stale entries.
func (ev *Eval) pop() (ID, *node, bool) {
	for len(ev.ready) > 0 {
		top := ev.ready[len(ev.ready)-1]
		ev.ready = ev.ready[:len(ev.ready)-1]
		n := ev.nodes[top.id]
		if n == nil || n.status != statusReady || n.stamp != top.stamp {
			continue
		}
		return top.id, n, true
	}
	return 0, nil, false
}

// lock adds a lock to id; a ready step becomes locked.
func (ev *Eval) lock(id ID) {
	n := ev.nodes[id]
	if n == nil || n.status == statusRunning {
		return
	}
	n.locks++
	if n.status == statusReady {
		n.status = statusLocked
	}
}

// unlock removes a lock from id; the last one makes a locked step ready.
func (ev *Eval) unlock(id ID) {
	n := ev.nodes[id]
	if n == nil || n.locks == 0 {
		return
	}
	n.locks--
	if n.locks == 0 && n.status == statusLocked {
		ev.push(id)
	}
}

// boost moves a ready step to the top of the stack.
func (ev *Eval) boost(id ID) {
	if n := ev.nodes[id]; n != nil && n.status == statusReady {
		ev.push(id)
	}
}

// Run executes steps until none is ready, then finalizes what is left.
func (ev *Eval) Run() {
	for {
		id, n, ok := ev.pop()
		if !ok {
			break
		}
		n.status = statusRunning
		if n.step.Run != nil {
			n.step.Run(ev, n.dep)
		}
		delete(ev.nodes, id)
		ev.stats.Ran++
		ev.unlock(n.dep)
	}

	for _, g := range ev.gates {
		for _, id := range g.held {
			ev.final(id)
		}
		g.held = nil
	}

	var locked []ID
	for id, n := range ev.nodes {
		if n.status == statusLocked {
			locked = append(locked, id)
		}
	}
	slices.Sort(locked)
	for _, id := range locked {
		ev.final(id)
	}
}

func (ev *Eval) final(id ID) {
	n := ev.nodes[id]
	if n == nil {
		return
	}
	delete(ev.nodes, id)
	ev.stats.Finalized++
	if n.step.Final != nil {
		n.step.Final(ev)
	}
}
