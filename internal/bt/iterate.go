package bt

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Termination decides when an Iterate decorator stops early.
type Termination int

const (
	// TerminateNone visits every element and reports the last child status.
	TerminateNone Termination = iota
	// TerminateOnSuccess stops at the first successful element.
	TerminateOnSuccess
	// TerminateOnFailure stops at the first failed element.
	TerminateOnFailure
)

// Iterate runs its child once per element of a list, tuple or set variable,
// writing each element to Current before the child runs. MaxIterations
// caps the number of elements visited when positive.
type Iterate struct {
	decorator
	List          blackboard.Param[cty.Value] `arg:"list"`
	Current       blackboard.Param[cty.Value] `arg:"current"`
	MaxIterations blackboard.Param[int]       `arg:"max_iterations"`
	Terminate     Termination                 `arg:"terminate"`

	index int
	last  status.Status
}

func (d *Iterate) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "list", Param: &d.List, Required: true, BlackboardOnly: true},
		{Field: "current", Param: &d.Current, BlackboardOnly: true},
		{Field: "max_iterations", Param: &d.MaxIterations},
	}
}

func (d *Iterate) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	elems, ok := elements(d.List.Get())
	if !ok {
		return status.Failure
	}
	limit := len(elems)
	if m := d.MaxIterations.Get(); m > 0 && m < limit {
		limit = m
	}
	if limit == 0 {
		return status.Failure
	}

	for d.index < limit {
		if !d.Current.IsNone() && c.Status() != status.Running {
			if err := d.Current.Set(elems[d.index]); err != nil {
				return status.Error
			}
		}
		st := c.Execute(agent, bb)
		if st == status.Running {
			return st
		}
		d.last = st
		if st == status.Error ||
			(d.Terminate == TerminateOnSuccess && st == status.Success) ||
			(d.Terminate == TerminateOnFailure && st == status.Failure) {
			return st
		}
		d.index++
		if d.index < limit {
			c.Reset(true)
		}
	}
	return d.last
}

func elements(v cty.Value) ([]cty.Value, bool) {
	if v.IsNull() || !v.IsKnown() {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, false
	}
	return v.AsValueSlice(), true
}

func (d *Iterate) OnReset(graph.NodeRef) {
	d.index = 0
	d.last = status.Resting
}
