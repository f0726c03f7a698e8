package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

var functions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"length": stdlib.LengthFunc,
	"lower":  stdlib.LowerFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"upper":  stdlib.UpperFunc,
}

// storeObject turns every variable of bb into one attribute of an object.
// A nil store yields an empty object.
func storeObject(bb *blackboard.Blackboard) cty.Value {
	if bb == nil {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, bb.Len())
	for _, v := range bb.Variables() {
		val := v.Value()
		if val == cty.NilVal {
			val = cty.NullVal(v.Type())
		}
		attrs[v.Name()] = val
	}
	return cty.ObjectVal(attrs)
}

// sharedObject exposes every shared store known to bb's registry as
// shared.<store>.<variable>.
func sharedObject(bb *blackboard.Blackboard) cty.Value {
	if bb == nil || bb.Registry() == nil {
		return cty.EmptyObjectVal
	}
	reg := bb.Registry()
	stores := map[string]cty.Value{}
	for _, name := range reg.Names() {
		if s, ok := reg.Lookup(name); ok {
			stores[name] = storeObject(s)
		}
	}
	return cty.ObjectVal(stores)
}

// evalContext builds the scope an expression is evaluated in: the local
// store under "var", shared stores under "shared" and a small function set.
func evalContext(bb *blackboard.Blackboard) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var":    storeObject(bb),
			"shared": sharedObject(bb),
		},
		Functions: functions,
	}
}

// nativeScope is evalContext for CEL: plain Go maps keyed the same way.
func nativeScope(bb *blackboard.Blackboard) map[string]any {
	local, _ := blackboard.Native(storeObject(bb)).(map[string]any)
	shared, _ := blackboard.Native(sharedObject(bb)).(map[string]any)
	if local == nil {
		local = map[string]any{}
	}
	if shared == nil {
		shared = map[string]any{}
	}
	return map[string]any{"bb": local, "shared": shared}
}
