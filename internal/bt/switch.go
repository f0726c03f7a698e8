package bt

import (
	"slices"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Switch runs the child selected by a blackboard value. With Cases set the
// selection is by name: Value is looked up in Cases and the position found
// picks the child. Otherwise Index picks the child directly.
//
// When the selection changes while a child is running, the previous child
// is reset before the new one runs. An out-of-range selection fails, or
// wraps around when Wrap is set.
type Switch struct {
	composite
	Index blackboard.Param[int]    `arg:"index"`
	Cases []string                 `arg:"cases"`
	Value blackboard.Param[string] `arg:"value"`
	Wrap  bool                     `arg:"wrap"`

	current int
	active  bool
}

func (s *Switch) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "index", Param: &s.Index},
		{Field: "value", Param: &s.Value},
	}
}

func (s *Switch) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	count := n.OutLen()
	if count == 0 {
		return status.Failure
	}

	idx := s.selected()
	if idx < 0 || idx >= count {
		if !s.Wrap || idx < 0 {
			s.resetCurrent(n)
			return status.Failure
		}
		idx %= count
	}

	if s.active && s.current != idx {
		s.resetCurrent(n)
	}
	s.current = idx
	s.active = true
	return n.OutAt(idx).Execute(agent, bb)
}

func (s *Switch) selected() int {
	if s.Cases != nil {
		return slices.Index(s.Cases, s.Value.Get())
	}
	return s.Index.Get()
}

func (s *Switch) resetCurrent(n graph.NodeRef) {
	if s.active && s.current < n.OutLen() {
		n.OutAt(s.current).Reset(true)
	}
	s.active = false
}

func (s *Switch) OnReset(graph.NodeRef) { s.active = false }
