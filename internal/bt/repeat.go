package bt

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// RepeatMode selects when a Repeat decorator stops.
type RepeatMode int

const (
	// RepeatTimes runs the child Times times and reports its last status.
	RepeatTimes RepeatMode = iota
	// RepeatUntil runs the child until it finishes with Until.
	RepeatUntil
	// RepeatForever never finishes.
	RepeatForever
)

// Repeat re-runs its child. Between runs the child is reset and the node
// reports Running, so every repetition takes at least one tick.
type Repeat struct {
	decorator
	Mode  RepeatMode            `arg:"mode"`
	Times blackboard.Param[int] `arg:"times"`
	Until status.Status         `arg:"until"`

	done int
}

func (d *Repeat) Bindings() []task.Binding {
	return []task.Binding{{Field: "times", Param: &d.Times}}
}

// Init rejects a counted repeat without a usable count.
func (d *Repeat) Init(*blackboard.Blackboard) error {
	if d.Mode != RepeatTimes {
		return nil
	}
	if !d.Times.IsSet() {
		return fmt.Errorf("%w: times", task.ErrMissingBinding)
	}
	if !d.Times.UseBlackboard() && d.Times.Literal() <= 0 {
		return fmt.Errorf("times %d: %w", d.Times.Literal(), ErrNotPositive)
	}
	return nil
}

func (d *Repeat) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	if d.Mode == RepeatTimes && d.Times.Get() <= 0 {
		return status.Failure
	}

	st := c.Execute(agent, bb)
	if !st.Finished() {
		return st
	}
	switch d.Mode {
	case RepeatTimes:
		d.done++
		if d.done >= d.Times.Get() {
			return st
		}
	case RepeatUntil:
		if st == d.Until {
			return st
		}
	}
	c.Reset(true)
	return status.Running
}

func (d *Repeat) OnReset(graph.NodeRef) { d.done = 0 }
