// Package expr provides conditions written as expressions over the
// blackboard, either in HCL syntax ("expr") or in CEL ("cel").
package expr

import (
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCondition("expr", func(_ registry.Env, def *config.TaskDef) (task.Condition, error) {
		c := &Expression{}
		return c, registry.Decode(def.Args, c)
	})
	r.RegisterCondition("cel", func(_ registry.Env, def *config.TaskDef) (task.Condition, error) {
		c := &CEL{}
		return c, registry.Decode(def.Args, c)
	})
}
