package fsm

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// StateObserver is notified after the current state changes. from is
// invalid on the first entry.
type StateObserver func(from, to graph.NodeRef)

// Machine is a state-machine graph. The prime node is the initial state.
type Machine struct {
	*graph.Graph

	current   graph.NodeHandle
	previous  graph.NodeHandle
	observers []StateObserver
}

// New creates a machine. Cycles are allowed; they are how states loop.
func New(name string, opts ...graph.Option) *Machine {
	m := &Machine{current: graph.NoNode, previous: graph.NoNode}
	m.Graph = graph.New(name, append([]graph.Option{graph.WithFlow(flow{m})}, opts...)...)
	return m
}

// Current is the current state, invalid while the machine is stopped.
func (m *Machine) Current() graph.NodeRef { return m.Ref(m.current) }

// Previous is the state that was current before the last transition.
func (m *Machine) Previous() graph.NodeRef { return m.Ref(m.previous) }

// OnStateChanged registers fn to run after every state change.
func (m *Machine) OnStateChanged(fn StateObserver) {
	m.observers = append(m.observers, fn)
}

// EnterState makes target the current state. The previous state is reset
// first; target then executes once. Entering the current state is refused.
func (m *Machine) EnterState(target graph.NodeRef) error {
	return m.enter(target, false)
}

// enter is EnterState; with reenter set, the current state is exited and
// entered again.
func (m *Machine) enter(target graph.NodeRef, reenter bool) error {
	if !m.IsRunning() {
		return fmt.Errorf("enter %s: %w", target, ErrNotRunning)
	}
	if !target.Valid() || target.Graph() != m.Graph {
		return fmt.Errorf("enter %s: %w", target, ErrUnknownState)
	}
	if _, ok := target.Node().(*AnyState); ok {
		return fmt.Errorf("enter %s: %w", target, ErrUnknownState)
	}
	if target.Handle() == m.current && !reenter {
		return fmt.Errorf("enter %s: %w", target, ErrSameState)
	}

	from := m.Current()
	if from.Valid() {
		from.Reset(true)
	}
	m.previous = m.current
	m.current = target.Handle()

	m.Logger().Debug("State entered.", "graph", m.Name(), "from", from.Name(), "to", target.Name())
	for _, fn := range m.observers {
		fn(from, target)
	}
	target.Execute(m.Agent(), m.Blackboard())
	return nil
}

// CheckTransitions follows the first passing transition out of state and
// reports whether a transition happened.
func (m *Machine) CheckTransitions(state graph.NodeRef) bool {
	retrigger, _ := anyState(state)
	for _, c := range state.Out() {
		target := c.Target()
		if target.Handle() == m.current && !retrigger {
			continue
		}
		if !m.passes(state, c) {
			continue
		}
		if err := m.enter(target, retrigger); err != nil {
			m.Logger().Warn("Transition refused.", "graph", m.Name(), "from", state.Name(), "to", target.Name(), "error", err)
			continue
		}
		return true
	}
	return false
}

func (m *Machine) passes(state graph.NodeRef, c graph.ConnRef) bool {
	if !c.Active() {
		return false
	}
	if cc, ok := c.Connection().(*graph.ConditionalConnection); ok && cc.Condition != nil {
		return cc.Pass(m.Agent(), m.Blackboard())
	}
	if _, ok := anyState(state); ok {
		return false
	}
	return state.Status() != status.Running
}

func anyState(n graph.NodeRef) (retrigger, ok bool) {
	a, ok := n.Node().(*AnyState)
	if !ok {
		return false, false
	}
	return a.Retrigger, true
}

func (m *Machine) anyStates() []graph.NodeRef {
	var out []graph.NodeRef
	for _, n := range m.NodesByID() {
		if _, ok := anyState(n); ok {
			out = append(out, n)
		}
	}
	return out
}

// flow drives a Machine. It is a separate type so that Machine keeps the
// graph's own Tick.
type flow struct{ m *Machine }

func (f flow) OnGraphStarted(g *graph.Graph) {
	m := f.m
	m.current, m.previous = graph.NoNode, graph.NoNode
	if err := m.EnterState(g.Prime()); err != nil {
		g.Logger().Error("Initial state refused.", "graph", g.Name(), "error", err)
	}
}

func (f flow) Tick(g *graph.Graph) status.Status {
	m := f.m
	for _, a := range m.anyStates() {
		if m.CheckTransitions(a) {
			return m.settle(g)
		}
	}

	cur := m.Current()
	if !cur.Valid() {
		g.Stop(false)
		return status.Failure
	}

	policy := CheckContinuously
	if s, ok := cur.Node().(*State); ok {
		policy = s.Policy
	}
	switch {
	case policy == CheckContinuously,
		policy == CheckAfterFinished && cur.Status().Finished():
		if m.CheckTransitions(cur) {
			return m.settle(g)
		}
	}

	cur.Execute(g.Agent(), g.Blackboard())
	return m.settle(g)
}

// settle stops the machine when the current state has finished and has
// nowhere left to go.
func (m *Machine) settle(g *graph.Graph) status.Status {
	cur := m.Current()
	st := cur.Status()
	if st == status.Running || !g.IsRunning() {
		return status.Running
	}
	if cur.OutLen() > 0 {
		return status.Running
	}
	for _, a := range m.anyStates() {
		if a.OutLen() > 0 {
			return status.Running
		}
	}
	g.Stop(st == status.Success)
	return st
}

func (f flow) OnGraphStopped(*graph.Graph) {
	f.m.current = graph.NoNode
}
