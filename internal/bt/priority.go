package bt

import (
	"cmp"
	"slices"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// PrioritySelector is a selector whose order follows the connection weights,
// highest first. The order is recomputed each time the node starts fresh;
// equal weights keep connection order.
type PrioritySelector struct {
	composite

	order   []int
	current int
}

func (p *PrioritySelector) NewConnection() graph.Connection { return newWeighted() }

func (p *PrioritySelector) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if n.Status() == status.Resting || len(p.order) != n.OutLen() {
		p.reorder(n)
	}

	sawError := false
	for i := p.current; i < len(p.order); i++ {
		st := n.OutAt(p.order[i]).Execute(agent, bb)
		switch st {
		case status.Running, status.Success:
			p.current = i
			return st
		case status.Error:
			sawError = true
		}
	}
	if sawError {
		return status.Error
	}
	return status.Failure
}

func (p *PrioritySelector) reorder(n graph.NodeRef) {
	p.current = 0
	p.order = identity(nil, n.OutLen())
	weights := make([]float64, len(p.order))
	for i := range weights {
		weights[i] = weightOf(n.OutAt(i))
	}
	slices.SortStableFunc(p.order, func(a, b int) int {
		return cmp.Compare(weights[b], weights[a])
	})
}

func (p *PrioritySelector) OnReset(graph.NodeRef) { p.current = 0 }
