package fsm

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Policy decides when a state checks its outgoing transitions.
type Policy int

const (
	// CheckContinuously checks transitions every tick.
	CheckContinuously Policy = iota
	// CheckAfterFinished checks transitions only once the state has finished.
	CheckAfterFinished
	// CheckManually never checks on its own; the host calls CheckTransitions.
	CheckManually
)

var policyNames = map[string]Policy{
	"continuous":     CheckContinuously,
	"after_finished": CheckAfterFinished,
	"manual":         CheckManually,
}

func (p Policy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func (p *Policy) UnmarshalText(text []byte) error {
	v, ok := policyNames[string(text)]
	if !ok {
		return fmt.Errorf("unknown transition policy %q", text)
	}
	*p = v
	return nil
}

// Hook is called with the state node it belongs to.
type Hook func(n graph.NodeRef)

// State is one state of a Machine. It runs its action while current and
// reports Success immediately when it has none.
type State struct {
	Action task.Action
	Policy Policy `arg:"policy"`
	Enter  Hook
	Stay   Hook
	Exit   Hook

	runner *task.Runner
	active bool
}

func NewState(a task.Action) *State {
	return &State{Action: a}
}

func (s *State) Init(bb *blackboard.Blackboard) error { return task.Init(s.Action, bb) }

func (s *State) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if !s.active {
		s.active = true
		if s.Enter != nil {
			s.Enter(n)
		}
	} else if s.Stay != nil {
		s.Stay(n)
	}

	if s.Action == nil {
		return status.Success
	}
	if st := n.Status(); st.Finished() {
		return st
	}
	if s.runner == nil {
		s.runner = task.NewRunner(s.Action)
	}
	return s.runner.Execute(agent, bb)
}

// Active reports whether the state has been entered and not yet exited.
func (s *State) Active() bool { return s.active }

func (s *State) OnReset(n graph.NodeRef) {
	if s.runner != nil {
		s.runner.Stop()
	}
	if s.active {
		s.active = false
		if s.Exit != nil {
			s.Exit(n)
		}
	}
}

func (s *State) OnGraphStarted(n graph.NodeRef) {
	s.runner = nil
	task.Attach(s.Action, n.Graph())
}

func (s *State) OnGraphPaused(graph.NodeRef) {
	if s.runner != nil {
		s.runner.Pause()
	}
}

func (s *State) OnGraphResumed(graph.NodeRef) {}

// AnyState holds transitions that apply whatever the current state is. It
// is never entered itself.
type AnyState struct {
	// Retrigger allows its transitions to re-enter the current state.
	Retrigger bool `arg:"retrigger"`
}

func (*AnyState) MaxIn() int { return 0 }

func (*AnyState) MaxOut() int { return graph.Unbounded }

func (*AnyState) Execute(graph.NodeRef, any, *blackboard.Blackboard) status.Status {
	return status.Resting
}
