package graph

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Connection is the behaviour of a directed edge.
type Connection interface {
	OnExecute(c ConnRef, agent any, bb *blackboard.Blackboard) status.Status
}

// ConnResetter is implemented by connections with state to clear on reset.
type ConnResetter interface {
	OnReset(c ConnRef)
}

// Forward is the plain edge: it executes its target and reports the result.
type Forward struct{}

func (Forward) OnExecute(c ConnRef, agent any, bb *blackboard.Blackboard) status.Status {
	return c.Target().Execute(agent, bb)
}

// ConditionalConnection is an edge guarded by an optional condition. When
// the condition is false the edge reports Failure and resets its target.
// State machines use it for transitions.
type ConditionalConnection struct {
	Condition task.Condition
}

func (cc *ConditionalConnection) OnExecute(c ConnRef, agent any, bb *blackboard.Blackboard) status.Status {
	if !cc.Pass(agent, bb) {
		c.Target().Reset(true)
		return status.Failure
	}
	return c.Target().Execute(agent, bb)
}

// Pass evaluates the condition. An edge without a condition always passes.
func (cc *ConditionalConnection) Pass(agent any, bb *blackboard.Blackboard) bool {
	return cc.Condition == nil || cc.Condition.Check(agent, bb)
}

func (cc *ConditionalConnection) Init(bb *blackboard.Blackboard) error {
	return task.Init(cc.Condition, bb)
}
