package bt

import (
	"math/rand/v2"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Sequencer runs its children in order until one fails or is still running.
// It succeeds when every child succeeds and fails on the first failure.
//
// A dynamic sequencer re-evaluates earlier children on every tick; when one
// of them stops succeeding, the children that were running after it are
// reset. A random sequencer shuffles its order once per graph start.
type Sequencer struct {
	composite
	Dynamic bool `arg:"dynamic"`
	Random  bool `arg:"random"`
	Rand    *rand.Rand

	order   []int
	current int
}

func (s *Sequencer) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	s.order = identity(s.order, n.OutLen())
	start := s.current
	if s.Dynamic {
		start = 0
	}

	for i := start; i < len(s.order); i++ {
		st := n.OutAt(s.order[i]).Execute(agent, bb)
		switch st {
		case status.Running, status.Failure, status.Error:
			if s.Dynamic && i < s.current {
				resetRange(n, s.order, i+1, s.current)
			}
			s.current = i
			return st
		}
	}
	return status.Success
}

func (s *Sequencer) OnReset(graph.NodeRef) { s.current = 0 }

func (s *Sequencer) OnGraphStarted(n graph.NodeRef) {
	s.current = 0
	s.order = identity(nil, n.OutLen())
	if s.Random {
		shuffle(s.order, s.Rand)
	}
}
