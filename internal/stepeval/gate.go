package stepeval

// Gate holds steps until it is opened.
type Gate struct {
	ev      *Eval
	trigger ID // the pending first step of CreateGateFor, boosted on demand
	held    []ID
	opened  bool
}

// CreateGate returns a gate that opens only by an explicit Open.
func (ev *Eval) CreateGate() *Gate {
	g := &Gate{ev: ev}
	ev.gates = append(ev.gates, g)
	return g
}

// CreateGateFor returns a gate with two scheduled steps: first runs, then
// open runs and the gate opens. Steps created on the gate while first has
// not run push first to the top of the stack.
func (ev *Eval) CreateGateFor(open, first Step) *Gate {
	g := ev.CreateGate()
	opener := ev.CreateStep(Step{
		Run: func(ev *Eval, _ ID) {
			if open.Run != nil {
				open.Run(ev, 0)
			}
			g.Open()
		},
		Final: open.Final,
	}, 0)
	g.trigger = ev.CreateStep(Step{
		Run: func(ev *Eval, dep ID) {
			if first.Run != nil {
				first.Run(ev, dep)
			}
			g.trigger = 0
		},
		Final: first.Final,
	}, opener)
	return g
}

// Opened reports whether Open was called.
func (g *Gate) Opened() bool { return g.opened }

// CreateStep schedules step after the gate opens, in front of dep.
// On an open gate it is the same as Eval.CreateStep.
func (g *Gate) CreateStep(step Step, dep ID) ID {
	if g.opened {
		return g.ev.CreateStep(step, dep)
	}
	id := g.ev.newNode(step, dep, statusGated)
	g.held = append(g.held, id)
	g.ev.lock(dep)
	g.Boost()
	return id
}

// Delay keeps dep from running before the gate opens.
func (g *Gate) Delay(dep ID) {
	g.CreateStep(Step{}, dep)
}

// Open releases the held steps: locked ones wait for their locks, the
// others become ready.
func (g *Gate) Open() {
	if g.opened {
		return
	}
	g.opened = true
	for _, id := range g.held {
		n := g.ev.nodes[id]
		if n == nil {
			continue
		}
		if n.locks > 0 {
			n.status = statusLocked
		} else {
			g.ev.push(id)
		}
	}
	g.held = nil
}

// Boost moves the pending trigger to the top of the ready stack.
func (g *Gate) Boost() {
	if g.trigger.IsValid() {
		g.ev.boost(g.trigger)
	}
}
