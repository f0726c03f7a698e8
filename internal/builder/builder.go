package builder

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/fsm"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/session"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Builder builds the definitions of one model into one session.
type Builder struct {
	reg   *registry.Registry
	model *config.Model
	sess  *session.Session
	opts  []graph.Option

	// building tracks graphs under construction to refuse recursive
	// sub-trees.
	building map[string]bool
}

// New creates a builder. opts are applied to every graph it builds.
func New(reg *registry.Registry, model *config.Model, sess *session.Session, opts ...graph.Option) *Builder {
	return &Builder{
		reg:      reg,
		model:    model,
		sess:     sess,
		opts:     opts,
		building: make(map[string]bool),
	}
}

// Instance is a built graph together with the blackboard it runs against.
type Instance struct {
	Name       string
	Graph      *graph.Graph
	Blackboard *blackboard.Blackboard
	// Machine is set for state machines.
	Machine *fsm.Machine
}

func (b *Builder) env() registry.Env {
	return registry.Env{Session: b.sess, Build: b}
}

// Instance builds the named tree or state machine and its blackboard.
func (b *Builder) Instance(name string) (*Instance, error) {
	inst := &Instance{Name: name}
	var bbName string
	switch t, f := b.findTree(name), b.findMachine(name); {
	case t != nil:
		g, err := b.Tree(name)
		if err != nil {
			return nil, err
		}
		inst.Graph, bbName = g, t.Blackboard
	case f != nil:
		m, err := b.Machine(name)
		if err != nil {
			return nil, err
		}
		inst.Graph, inst.Machine, bbName = m.Graph, m, f.Blackboard
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGraph, name)
	}

	bb, err := b.Blackboard(bbName, name)
	if err != nil {
		return nil, fmt.Errorf("graph %q: %w", name, err)
	}
	inst.Blackboard = bb
	return inst, nil
}

// All builds an instance of every tree and state machine, trees first, in
// declaration order.
func (b *Builder) All() ([]*Instance, error) {
	if err := b.SharedBlackboards(); err != nil {
		return nil, err
	}
	var out []*Instance
	for _, name := range b.GraphNames() {
		inst, err := b.Instance(name)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// GraphNames lists the trees and then the state machines of the model.
func (b *Builder) GraphNames() []string {
	names := make([]string, 0, len(b.model.Trees)+len(b.model.Machines))
	for _, t := range b.model.Trees {
		names = append(names, t.Name)
	}
	for _, f := range b.model.Machines {
		names = append(names, f.Name)
	}
	return names
}

func (b *Builder) findTree(name string) *config.TreeDef {
	for _, t := range b.model.Trees {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (b *Builder) findMachine(name string) *config.MachineDef {
	for _, f := range b.model.Machines {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Action instantiates an action definition.
func (b *Builder) Action(def *config.TaskDef) (task.Action, error) {
	factory, ok := b.reg.Action(def.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: %w: action %q", def.Source.Range, ErrUnknownKind, def.Kind)
	}
	a, err := factory(b.env(), def)
	if err != nil {
		return nil, fmt.Errorf("%s: action %q: %w", def.Source.Range, def.Kind, err)
	}
	return a, nil
}

// Condition instantiates a condition definition.
func (b *Builder) Condition(def *config.TaskDef) (task.Condition, error) {
	factory, ok := b.reg.Condition(def.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: %w: condition %q", def.Source.Range, ErrUnknownKind, def.Kind)
	}
	c, err := factory(b.env(), def)
	if err != nil {
		return nil, fmt.Errorf("%s: condition %q: %w", def.Source.Range, def.Kind, err)
	}
	return c, nil
}
