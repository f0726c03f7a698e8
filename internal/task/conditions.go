package task

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

// All is true when every condition holds. An empty list is true.
type All []Condition

func (l All) Check(agent any, bb *blackboard.Blackboard) bool {
	for _, c := range l {
		if !c.Check(agent, bb) {
			return false
		}
	}
	return true
}

func (l All) Init(bb *blackboard.Blackboard) error {
	return initConditions(bb, l)
}

// Any is true when at least one condition holds. An empty list is false.
type Any []Condition

func (l Any) Check(agent any, bb *blackboard.Blackboard) bool {
	for _, c := range l {
		if c.Check(agent, bb) {
			return true
		}
	}
	return false
}

func (l Any) Init(bb *blackboard.Blackboard) error {
	return initConditions(bb, l)
}

// Not inverts a condition.
type Not struct {
	Condition Condition
}

func (n Not) Check(agent any, bb *blackboard.Blackboard) bool {
	return !n.Condition.Check(agent, bb)
}

func (n Not) Init(bb *blackboard.Blackboard) error {
	return Init(n.Condition, bb)
}

func initConditions(bb *blackboard.Blackboard, list []Condition) error {
	targets := make([]any, len(list))
	for i, c := range list {
		targets[i] = c
	}
	return InitAll(bb, targets...)
}
