package bt

import (
	"math/rand/v2"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// ProbabilitySelector picks one child at random, weighted by its connection
// weight, and runs only that child. FailWeight adds a region that selects no
// child and fails. A new draw happens on every graph start and every reset,
// so a running child keeps being chosen until the node finishes.
type ProbabilitySelector struct {
	composite
	FailWeight blackboard.Param[float64] `arg:"fail_weight"`
	Rand       *rand.Rand

	threshold float64
	drawn     bool
}

func (p *ProbabilitySelector) NewConnection() graph.Connection { return newWeighted() }

func (p *ProbabilitySelector) Bindings() []task.Binding {
	return []task.Binding{{Field: "fail_weight", Param: &p.FailWeight}}
}

func (p *ProbabilitySelector) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	total := max(p.FailWeight.Get(), 0)
	for i := range n.OutLen() {
		total += weightOf(n.OutAt(i))
	}
	if total <= 0 {
		return status.Failure
	}
	if !p.drawn {
		p.draw()
	}

	remaining := p.threshold * total
	for i := range n.OutLen() {
		c := n.OutAt(i)
		w := weightOf(c)
		if remaining < w {
			return c.Execute(agent, bb)
		}
		remaining -= w
	}
	return status.Failure
}

func (p *ProbabilitySelector) draw() {
	p.threshold = float64N(p.Rand)
	p.drawn = true
}

func (p *ProbabilitySelector) OnGraphStarted(graph.NodeRef) { p.draw() }

func (p *ProbabilitySelector) OnReset(graph.NodeRef) { p.draw() }
