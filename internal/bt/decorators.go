package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// ConditionalGate runs its child only while Condition holds and fails
// otherwise. A latched gate checks the condition until it passes once and
// then stays open until the gate is reset; a dynamic gate checks it every
// tick and resets a running child when it stops holding.
type ConditionalGate struct {
	decorator
	Condition task.Condition
	Dynamic   bool `arg:"dynamic"`

	accessed bool
}

func (d *ConditionalGate) Init(bb *blackboard.Blackboard) error { return task.Init(d.Condition, bb) }

func (d *ConditionalGate) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	if d.Condition == nil {
		return c.Execute(agent, bb)
	}
	if d.Dynamic || !d.accessed {
		if !d.Condition.Check(agent, bb) {
			d.accessed = false
			c.Reset(true)
			return status.Failure
		}
		d.accessed = true
	}
	return c.Execute(agent, bb)
}

func (d *ConditionalGate) OnReset(graph.NodeRef) { d.accessed = false }

// Interrupt runs its child until Condition becomes true, then resets the
// child and fails.
type Interrupt struct {
	decorator
	Condition task.Condition
}

func (d *Interrupt) Init(bb *blackboard.Blackboard) error { return task.Init(d.Condition, bb) }

func (d *Interrupt) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	if d.Condition != nil && d.Condition.Check(agent, bb) {
		c.Reset(true)
		return status.Failure
	}
	return c.Execute(agent, bb)
}

// Inverter swaps Success and Failure.
type Inverter struct {
	decorator
}

func (d *Inverter) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	return c.Execute(agent, bb).Invert()
}

// Optional runs its child and hides the outcome: a finished child is reset
// and the node reports Resting, which parent composites skip over.
type Optional struct {
	decorator
}

func (d *Optional) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	st := c.Execute(agent, bb)
	if st == status.Running {
		return st
	}
	c.Reset(true)
	return status.Resting
}
