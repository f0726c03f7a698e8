package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// ParallelPolicy decides when a Parallel node finishes early.
type ParallelPolicy int

const (
	// FirstFailure fails as soon as any child fails and succeeds when all succeed.
	FirstFailure ParallelPolicy = iota
	// FirstSuccess succeeds as soon as any child succeeds and fails when all fail.
	FirstSuccess
	// FirstResult finishes with the first finished child's status.
	FirstResult
)

// Parallel ticks every child on every tick. Finished children are not run
// again unless Dynamic is set. When the policy finishes the node early the
// children still running are reset.
type Parallel struct {
	composite
	Policy  ParallelPolicy `arg:"policy"`
	Dynamic bool           `arg:"dynamic"`
}

func (p *Parallel) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if n.OutLen() == 0 {
		return status.Failure
	}

	running := false
	for i := range n.OutLen() {
		c := n.OutAt(i)
		st := c.Status()
		if p.Dynamic || !st.Finished() {
			st = c.Execute(agent, bb)
		}
		if st == status.Running {
			running = true
			continue
		}
		if p.decides(st) {
			resetRunning(n)
			return st
		}
	}
	if running {
		return status.Running
	}
	if p.Policy == FirstSuccess {
		return status.Failure
	}
	return status.Success
}

func (p *Parallel) decides(st status.Status) bool {
	switch p.Policy {
	case FirstSuccess:
		return st == status.Success || st == status.Error
	case FirstResult:
		return st.Finished()
	default:
		return st == status.Failure || st == status.Error
	}
}

func resetRunning(n graph.NodeRef) {
	for _, c := range n.Out() {
		if c.Status() == status.Running {
			c.Reset(true)
		}
	}
}
