// Package vars provides the blackboard tasks: set_var, check_var and
// probability, plus the all, any and not condition lists.
package vars

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func children(env registry.Env, def *config.TaskDef) ([]task.Condition, error) {
	if err := registry.Decode(def.Args, &struct{}{}); err != nil {
		return nil, err
	}
	out := make([]task.Condition, 0, len(def.Children))
	for _, c := range def.Children {
		cond, err := env.Build.Condition(c)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("set_var", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &SetVariable{}
		return a, registry.Decode(def.Args, a)
	})
	r.RegisterCondition("check_var", func(_ registry.Env, def *config.TaskDef) (task.Condition, error) {
		c := &CheckVariable{}
		return c, registry.Decode(def.Args, c)
	})
	r.RegisterCondition("probability", func(env registry.Env, def *config.TaskDef) (task.Condition, error) {
		c := &Probability{Rand: env.Session.Rand}
		return c, registry.Decode(def.Args, c)
	})

	r.RegisterCondition("all", func(env registry.Env, def *config.TaskDef) (task.Condition, error) {
		list, err := children(env, def)
		return task.All(list), err
	})
	r.RegisterCondition("any", func(env registry.Env, def *config.TaskDef) (task.Condition, error) {
		list, err := children(env, def)
		return task.Any(list), err
	})
	r.RegisterCondition("not", func(env registry.Env, def *config.TaskDef) (task.Condition, error) {
		list, err := children(env, def)
		if err != nil {
			return nil, err
		}
		if len(list) != 1 {
			return nil, fmt.Errorf("not: expected exactly one condition, got %d", len(list))
		}
		return task.Not{Condition: list[0]}, nil
	})
}
