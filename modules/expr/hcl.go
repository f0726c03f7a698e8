package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

// Expression is a condition written as an HCL expression, for example
// `var.health < 30 && shared.world.alarm`. A failed evaluation or a
// non-boolean result counts as false.
type Expression struct {
	Expr hcl.Expression `arg:"expr,required"`
}

func (e *Expression) Check(_ any, bb *blackboard.Blackboard) bool {
	if e.Expr == nil {
		return false
	}
	val, diags := e.Expr.Value(evalContext(bb))
	if diags.HasErrors() {
		if bb != nil {
			bb.Logger().Debug("Expression evaluation failed.", "range", e.Expr.Range().String(), "error", diags.Error())
		}
		return false
	}
	val, err := convert.Convert(val, cty.Bool)
	if err != nil || val.IsNull() || !val.IsKnown() {
		return false
	}
	return val.True()
}
