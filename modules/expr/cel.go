package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

// CEL is a condition written in the Common Expression Language. The local
// store is visible as the map "bb" and shared stores as "shared", e.g.
// `bb.ammo > 0 && shared.world.alarm == false`.
type CEL struct {
	Source string `arg:"expr,required"`

	program cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("bb", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("shared", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
}

// Init compiles the source once per graph start.
func (c *CEL) Init(*blackboard.Blackboard) error {
	if c.program != nil {
		return nil
	}
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	ast, iss := env.Compile(c.Source)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("cel: compiling %q: %w", c.Source, iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	c.program = prg
	return nil
}

func (c *CEL) Check(_ any, bb *blackboard.Blackboard) bool {
	if c.program == nil {
		return false
	}
	out, _, err := c.program.Eval(nativeScope(bb))
	if err != nil {
		if bb != nil {
			bb.Logger().Debug("CEL evaluation failed.", "expr", c.Source, "error", err)
		}
		return false
	}
	ok, _ := out.Value().(bool)
	return ok
}
