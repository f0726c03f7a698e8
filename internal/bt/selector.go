package bt

import (
	"math/rand/v2"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Selector runs its children in order until one succeeds or is still
// running. It fails when every child fails.
//
// A dynamic selector re-evaluates higher-priority children on every tick and
// resets the running lower-priority child when one of them takes over.
type Selector struct {
	composite
	Dynamic bool `arg:"dynamic"`
	Random  bool `arg:"random"`
	Rand    *rand.Rand

	order   []int
	current int
}

func (s *Selector) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	s.order = identity(s.order, n.OutLen())
	start := s.current
	if s.Dynamic {
		start = 0
	}

	sawError := false
	for i := start; i < len(s.order); i++ {
		st := n.OutAt(s.order[i]).Execute(agent, bb)
		switch st {
		case status.Running, status.Success:
			if s.Dynamic && i < s.current {
				resetRange(n, s.order, i+1, s.current)
			}
			s.current = i
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

func (s *Selector) OnReset(graph.NodeRef) { s.current = 0 }

func (s *Selector) OnGraphStarted(n graph.NodeRef) {
	s.current = 0
	s.order = identity(nil, n.OutLen())
	if s.Random {
		shuffle(s.order, s.Rand)
	}
}
