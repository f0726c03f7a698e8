// Package nodes registers the behaviour-tree node kinds.
package nodes

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/bt"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// plain registers a kind whose node is fully described by its arguments.
func plain[T any, PT interface {
	*T
	graph.Node
}](r *registry.Registry, kind string, setup func(env registry.Env, n PT)) {
	r.RegisterNode(kind, func(env registry.Env, def *config.NodeDef) (graph.Node, error) {
		n := PT(new(T))
		if setup != nil {
			setup(env, n)
		}
		if err := registry.Decode(def.Args, n); err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, def.Name, err)
		}
		return n, nil
	})
}

// gated registers a kind that needs the node's condition block.
func gated[T any, PT interface {
	*T
	graph.Node
}](r *registry.Registry, kind string, set func(n PT, c task.Condition)) {
	r.RegisterNode(kind, func(env registry.Env, def *config.NodeDef) (graph.Node, error) {
		n := PT(new(T))
		if err := registry.Decode(def.Args, n); err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, def.Name, err)
		}
		if def.Condition == nil {
			return nil, fmt.Errorf("%s %q: a condition block is required", kind, def.Name)
		}
		c, err := env.Build.Condition(def.Condition)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, def.Name, err)
		}
		set(n, c)
		return n, nil
	})
}

// Register registers the node kinds with the engine.
func (m *Module) Register(r *registry.Registry) {
	plain[bt.Sequencer](r, "sequencer", func(env registry.Env, n *bt.Sequencer) { n.Rand = env.Session.Rand })
	plain[bt.Selector](r, "selector", func(env registry.Env, n *bt.Selector) { n.Rand = env.Session.Rand })
	plain[bt.PrioritySelector](r, "priority_selector", nil)
	plain[bt.ProbabilitySelector](r, "probability_selector", func(env registry.Env, n *bt.ProbabilitySelector) { n.Rand = env.Session.Rand })
	plain[bt.Switch](r, "switch", nil)
	plain[bt.StepIterator](r, "step_iterator", nil)
	plain[bt.Parallel](r, "parallel", nil)

	plain[bt.Repeat](r, "repeat", nil)
	plain[bt.Guard](r, "guard", func(env registry.Env, n *bt.Guard) { n.Registry = env.Session.Guards })
	plain[bt.Iterate](r, "iterate", nil)
	plain[bt.Optional](r, "optional", nil)
	plain[bt.Inverter](r, "inverter", nil)
	plain[bt.Timeout](r, "timeout", nil)
	plain[bt.Cooldown](r, "cooldown", nil)
	gated[bt.ConditionalGate](r, "gate", func(n *bt.ConditionalGate, c task.Condition) { n.Condition = c })
	gated[bt.Interrupt](r, "interrupt", func(n *bt.Interrupt, c task.Condition) { n.Condition = c })
	gated[bt.ConditionNode](r, "condition", func(n *bt.ConditionNode, c task.Condition) { n.Condition = c })

	r.RegisterNode("action", func(env registry.Env, def *config.NodeDef) (graph.Node, error) {
		if def.Action == nil {
			return nil, fmt.Errorf("action %q: an action block is required", def.Name)
		}
		if err := registry.Decode(def.Args, &struct{}{}); err != nil {
			return nil, fmt.Errorf("action %q: %w", def.Name, err)
		}
		a, err := env.Build.Action(def.Action)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", def.Name, err)
		}
		return bt.NewAction(a), nil
	})
	r.RegisterNode("subtree", func(env registry.Env, def *config.NodeDef) (graph.Node, error) {
		var args struct {
			Tree string `arg:"tree,required"`
		}
		if err := registry.Decode(def.Args, &args); err != nil {
			return nil, fmt.Errorf("subtree %q: %w", def.Name, err)
		}
		g, err := env.Build.Tree(args.Tree)
		if err != nil {
			return nil, fmt.Errorf("subtree %q: %w", def.Name, err)
		}
		return &bt.SubTree{Graph: g}, nil
	})
}
