package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// StepIterator runs a single child per pass and advances to the next child
// each time it is reset, wrapping around at the end.
type StepIterator struct {
	composite

	current int
}

func (s *StepIterator) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if n.OutLen() == 0 {
		return status.Failure
	}
	s.current %= n.OutLen()
	return n.OutAt(s.current).Execute(agent, bb)
}

func (s *StepIterator) OnReset(graph.NodeRef) { s.current++ }

func (s *StepIterator) OnGraphStarted(graph.NodeRef) { s.current = 0 }
