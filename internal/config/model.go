package config

import (
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is everything loaded from a set of definition files.
type Model struct {
	Blackboards []*BlackboardDef
	Trees       []*TreeDef
	Machines    []*MachineDef
}

// Blackboard returns the blackboard definition with the given name.
func (m *Model) Blackboard(name string) (*BlackboardDef, bool) {
	for _, b := range m.Blackboards {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Merge appends other's definitions to m.
func (m *Model) Merge(other *Model) {
	m.Blackboards = append(m.Blackboards, other.Blackboards...)
	m.Trees = append(m.Trees, other.Trees...)
	m.Machines = append(m.Machines, other.Machines...)
}

// Source locates a definition in its file.
type Source struct {
	File  string
	Range hcl.Range
}

// BlackboardDef declares a store. Shared stores are registered in the
// session under their name; private ones are copied per graph.
type BlackboardDef struct {
	Name      string
	Shared    bool
	Variables []*VariableDef
	Source    Source
}

// VariableDef declares one slot. A nil Default leaves the slot null.
type VariableDef struct {
	Name    string
	Type    cty.Type
	Default *cty.Value
}

// TreeDef is a behaviour tree.
type TreeDef struct {
	Name       string
	Blackboard string
	Repeat     bool
	Interval   time.Duration
	Root       *NodeDef
	Source     Source
}

// NodeDef is one node of a tree. Children are in execution order.
type NodeDef struct {
	Kind      string
	Name      string
	Args      Args
	Action    *TaskDef
	Condition *TaskDef
	Children  []*NodeDef
	// Edge holds the arguments of the connection from the parent, such as
	// a weight.
	Edge   Args
	Source Source
}

// MachineDef is a finite-state machine. Any holds the transitions checked
// before the current state's, whatever that state is.
type MachineDef struct {
	Name         string
	Blackboard   string
	Initial      string
	States       []*StateDef
	Any          []*TransitionDef
	AnyRetrigger bool
	Source       Source
}

// StateDef is one state and its outgoing transitions, in check order.
type StateDef struct {
	Name        string
	Args        Args
	Action      *TaskDef
	Transitions []*TransitionDef
	Source      Source
}

// TransitionDef moves to To when Condition holds, or, without a condition,
// when the source state has finished.
type TransitionDef struct {
	To        string
	Condition *TaskDef
	Source    Source
}

// TaskDef instantiates an action or condition kind. Children are nested
// conditions of list kinds such as all or any.
type TaskDef struct {
	Kind     string
	Args     Args
	Children []*TaskDef
	Source   Source
}

// Arg is one configured argument: either a literal value or a reference to
// a blackboard variable. Expr keeps the raw expression for kinds that
// evaluate it themselves.
type Arg struct {
	Value cty.Value
	Ref   string
	Expr  hcl.Expression
}

// IsRef reports whether the argument names a variable.
func (a Arg) IsRef() bool { return a.Ref != "" }

// Args maps argument names to values.
type Args map[string]Arg
