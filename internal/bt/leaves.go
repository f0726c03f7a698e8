package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// ActionNode runs an action until it finishes. A finished action is not run
// again until the node is reset; resetting a running action stops it.
type ActionNode struct {
	leaf
	Action task.Action

	runner *task.Runner
}

func NewAction(a task.Action) *ActionNode {
	return &ActionNode{Action: a}
}

func (a *ActionNode) Init(bb *blackboard.Blackboard) error { return task.Init(a.Action, bb) }

func (a *ActionNode) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if a.Action == nil {
		return status.Failure
	}
	if st := n.Status(); st.Finished() {
		return st
	}
	return a.run().Execute(agent, bb)
}

func (a *ActionNode) run() *task.Runner {
	if a.runner == nil {
		a.runner = task.NewRunner(a.Action)
	}
	return a.runner
}

func (a *ActionNode) OnReset(graph.NodeRef) {
	if a.runner != nil {
		a.runner.Stop()
	}
}

// OnGraphStarted rebuilds the runner, so an Action replaced between runs is
// picked up.
func (a *ActionNode) OnGraphStarted(n graph.NodeRef) {
	a.runner = nil
	task.Attach(a.Action, n.Graph())
}

func (a *ActionNode) OnGraphPaused(graph.NodeRef) {
	if a.runner != nil {
		a.runner.Pause()
	}
}

func (a *ActionNode) OnGraphResumed(graph.NodeRef) {}

// ConditionNode succeeds when its condition holds and fails otherwise.
type ConditionNode struct {
	leaf
	Condition task.Condition
}

func NewCondition(c task.Condition) *ConditionNode {
	return &ConditionNode{Condition: c}
}

func (c *ConditionNode) Init(bb *blackboard.Blackboard) error { return task.Init(c.Condition, bb) }

func (c *ConditionNode) Execute(_ graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	if c.Condition == nil || !c.Condition.Check(agent, bb) {
		return status.Failure
	}
	return status.Success
}
