package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// SubTree runs another graph as a leaf. The nested graph is started with
// the parent's agent and blackboard, or with Blackboard when set, and
// ticked once per execution. Resetting the node stops the nested graph.
type SubTree struct {
	leaf
	Graph      *graph.Graph
	Blackboard *blackboard.Blackboard
}

func (s *SubTree) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if s.Graph == nil {
		return status.Failure
	}
	if st := n.Status(); st.Finished() {
		return st
	}
	if !s.Graph.IsRunning() {
		if s.Blackboard != nil {
			bb = s.Blackboard
		}
		if err := s.Graph.Start(n.Graph().Context(), agent, bb, nil); err != nil {
			n.Graph().Logger().Error("Sub-tree failed to start.", "graph", n.Graph().Name(), "node", n.Name(), "error", err)
			return status.Error
		}
	}
	return s.Graph.Tick()
}

func (s *SubTree) OnReset(graph.NodeRef) {
	if s.Graph != nil {
		s.Graph.Stop(false)
	}
}

func (s *SubTree) OnGraphPaused(graph.NodeRef) {
	if s.Graph != nil {
		s.Graph.Pause()
	}
}

func (s *SubTree) OnGraphResumed(graph.NodeRef) {
	if s.Graph != nil {
		s.Graph.Resume()
	}
}
