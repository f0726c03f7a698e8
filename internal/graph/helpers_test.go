package graph

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// scripted returns its results in order, repeating the last one.
type scripted struct {
	results []status.Status
	calls   int
	resets  int
	maxIn   int
	maxOut  int
}

func newScripted(results ...status.Status) *scripted {
	return &scripted{results: results, maxIn: Unbounded, maxOut: Unbounded}
}

func (s *scripted) Execute(NodeRef, any, *blackboard.Blackboard) status.Status {
	s.calls++
	i := min(s.calls, len(s.results)) - 1
	return s.results[i]
}

func (s *scripted) OnReset(NodeRef) { s.resets++ }
func (s *scripted) MaxIn() int      { return s.maxIn }
func (s *scripted) MaxOut() int     { return s.maxOut }

// relay executes its first child, or returns Resting without one.
type relay struct {
	resets int
}

func (r *relay) Execute(n NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if n.OutLen() == 0 {
		return status.Resting
	}
	return n.OutAt(0).Execute(agent, bb)
}

func (r *relay) OnReset(NodeRef) { r.resets++ }

// funcNode runs an arbitrary function.
type funcNode func(n NodeRef, agent any, bb *blackboard.Blackboard) status.Status

func (f funcNode) Execute(n NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	return f(n, agent, bb)
}

type edgeEvent struct {
	node      string
	connected bool
	outgoing  bool
	linked    bool
}

// recorder logs edge notifications.
type recorder struct {
	relay
	events *[]edgeEvent
}

func (r *recorder) OnConnected(n NodeRef, c ConnRef) {
	*r.events = append(*r.events, edgeEvent{node: n.Name(), connected: true, outgoing: c.Source() == n, linked: c.Index() >= 0})
}

func (r *recorder) OnDisconnected(n NodeRef, c ConnRef) {
	*r.events = append(*r.events, edgeEvent{node: n.Name(), connected: false, outgoing: c.Source() == n, linked: c.Index() >= 0})
}
