package vars

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// CheckVariable compares the Name variable against Value.
type CheckVariable struct {
	Name  blackboard.Param[cty.Value] `arg:"name,required"`
	Op    string                      `arg:"op"`
	Value blackboard.Param[cty.Value] `arg:"value"`
}

func (c *CheckVariable) Bindings() []task.Binding {
	return []task.Binding{
		{Field: "name", Param: &c.Name, Required: true, BlackboardOnly: true},
		{Field: "value", Param: &c.Value},
	}
}

func (c *CheckVariable) Init(*blackboard.Blackboard) error {
	switch c.Op {
	case "", "==", "!=", "<", "<=", ">", ">=":
		return nil
	}
	return fmt.Errorf("check_var: unknown op %q", c.Op)
}

func (c *CheckVariable) Check(any, *blackboard.Blackboard) bool {
	ok, err := compare(c.Op, null(c.Name.Get()), null(c.Value.Get()))
	return err == nil && ok
}

func compare(op string, l, r cty.Value) (bool, error) {
	if !l.IsNull() && !r.IsNull() && !l.Type().Equals(r.Type()) {
		converted, err := convert.Convert(r, l.Type())
		if err != nil {
			return false, err
		}
		r = converted
	}

	switch op {
	case "", "==":
		return l.Equals(r).True(), nil
	case "!=":
		return !l.Equals(r).True(), nil
	}

	if l.IsNull() || r.IsNull() {
		return false, fmt.Errorf("cannot order null values")
	}
	a, err := convert.Convert(l, cty.Number)
	if err != nil {
		return false, err
	}
	b, err := convert.Convert(r, cty.Number)
	if err != nil {
		return false, err
	}
	switch op {
	case "<":
		return a.LessThan(b).True(), nil
	case "<=":
		return a.LessThanOrEqualTo(b).True(), nil
	case ">":
		return a.GreaterThan(b).True(), nil
	case ">=":
		return a.GreaterThanOrEqualTo(b).True(), nil
	}
	return false, fmt.Errorf("unknown op %q", op)
}
