package task

import (
	"context"
	"time"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Action is a resumable unit of work. Execute is invoked once per tick while
// the owning node runs and returns Running until the work is done.
type Action interface {
	Execute(agent any, bb *blackboard.Blackboard) status.Status
	// Stop tears down in-flight work. It is only called on a running action.
	Stop()
	// Pause suspends in-flight work when the owning graph pauses.
	Pause()
}

// Condition is a check that resolves within a single tick.
type Condition interface {
	Check(agent any, bb *blackboard.Blackboard) bool
}

// Starter is implemented by actions that prepare state when a run begins.
type Starter interface {
	Start(agent any, bb *blackboard.Blackboard)
}

// Initializer is implemented by anything that needs setup when its graph
// starts. A returned error prevents the graph from running.
type Initializer interface {
	Init(bb *blackboard.Blackboard) error
}

// Clock exposes the owning graph's elapsed time.
type Clock interface {
	Elapsed() time.Duration
}

// ClockAware is implemented by tasks measuring time against their graph.
type ClockAware interface {
	SetClock(c Clock)
}

// ContextAware is implemented by tasks doing blocking work that must end
// with the graph's context.
type ContextAware interface {
	SetContext(ctx context.Context)
}

// Host is what a running graph offers its tasks.
type Host interface {
	Clock
	Context() context.Context
}

// Attach hands h to target's ClockAware and ContextAware hooks.
func Attach(target any, h Host) {
	if ca, ok := target.(ClockAware); ok {
		ca.SetClock(h)
	}
	if ca, ok := target.(ContextAware); ok {
		ca.SetContext(h.Context())
	}
}

// Lifecycle provides no-op Stop and Pause for actions that finish within
// one tick.
type Lifecycle struct{}

func (Lifecycle) Stop()  {}
func (Lifecycle) Pause() {}

// ActionFunc adapts a function to an Action with no stop or pause behaviour.
type ActionFunc func(agent any, bb *blackboard.Blackboard) status.Status

func (f ActionFunc) Execute(agent any, bb *blackboard.Blackboard) status.Status { return f(agent, bb) }
func (ActionFunc) Stop()                                                        {}
func (ActionFunc) Pause()                                                       {}

// ConditionFunc adapts a function to a Condition.
type ConditionFunc func(agent any, bb *blackboard.Blackboard) bool

func (f ConditionFunc) Check(agent any, bb *blackboard.Blackboard) bool { return f(agent, bb) }
