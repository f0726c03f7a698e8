package vars

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// SetVariable writes Value to the Name variable, optionally combining it
// with the current value first.
type SetVariable struct {
	task.Lifecycle
	Name  blackboard.Param[cty.Value] `arg:"name,required"`
	Value blackboard.Param[cty.Value] `arg:"value"`
	Op    string                      `arg:"op"`
}

func (s *SetVariable) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "name", Param: &s.Name, Required: true, BlackboardOnly: true},
		{Field: "value", Param: &s.Value},
	}
}

func (s *SetVariable) Init(*blackboard.Blackboard) error {
	switch s.Op {
	case "", "set", "add", "sub", "mul", "div", "toggle":
		return nil
	}
	return fmt.Errorf("set_var: unknown op %q", s.Op)
}

func (s *SetVariable) Execute(any, *blackboard.Blackboard) status.Status {
	next, err := apply(s.Op, null(s.Name.Get()), null(s.Value.Get()))
	if err != nil {
		return status.Failure
	}
	if err := s.Name.Set(next); err != nil {
		return status.Failure
	}
	return status.Success
}

func apply(op string, cur, v cty.Value) (cty.Value, error) {
	switch op {
	case "", "set":
		return v, nil
	case "toggle":
		b, err := convert.Convert(cur, cty.Bool)
		if err != nil || b.IsNull() {
			return cty.True, nil
		}
		return b.Not(), nil
	}

	a, err := convert.Convert(cur, cty.Number)
	if err != nil {
		return cty.NilVal, err
	}
	b, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, err
	}
	if a.IsNull() {
		a = cty.Zero
	}
	if b.IsNull() {
		return cty.NilVal, fmt.Errorf("%s needs a value", op)
	}
	switch op {
	case "add":
		return a.Add(b), nil
	case "sub":
		return a.Subtract(b), nil
	case "mul":
		return a.Multiply(b), nil
	case "div":
		if b.Equals(cty.Zero).True() {
			return cty.NilVal, fmt.Errorf("division by zero")
		}
		return a.Divide(b), nil
	}
	return cty.NilVal, fmt.Errorf("unknown op %q", op)
}

// null replaces the zero cty.Value returned for unresolved handles.
func null(v cty.Value) cty.Value {
	if v == cty.NilVal {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return v
}
