package builder

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/bt"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/fsm"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/registry"
)

// AnyStateName names the node holding a machine's any_state transitions.
const AnyStateName = "any_state"

// Tree builds a fresh instance of the named tree or state machine.
func (b *Builder) Tree(name string) (*graph.Graph, error) {
	if b.building[name] {
		return nil, fmt.Errorf("%w: %q", ErrRecursiveGraph, name)
	}
	if def := b.findTree(name); def != nil {
		b.building[name] = true
		defer delete(b.building, name)
		return b.tree(def)
	}
	if b.findMachine(name) != nil {
		m, err := b.Machine(name)
		if err != nil {
			return nil, err
		}
		return m.Graph, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGraph, name)
}

func (b *Builder) tree(def *config.TreeDef) (*graph.Graph, error) {
	g := bt.New(def.Name, &bt.Tree{Repeat: def.Repeat, Interval: def.Interval}, b.opts...)
	root, err := b.addNode(g, def.Root)
	if err != nil {
		return nil, fmt.Errorf("tree %q: %w", def.Name, err)
	}
	if err := g.SetPrime(root.Handle()); err != nil {
		return nil, fmt.Errorf("tree %q: %w", def.Name, err)
	}
	return g, nil
}

// addNode adds def and its subtree to g, depth first.
func (b *Builder) addNode(g *graph.Graph, def *config.NodeDef) (graph.NodeRef, error) {
	factory, ok := b.reg.Node(def.Kind)
	if !ok {
		return graph.NodeRef{}, fmt.Errorf("%s: %w: node %q", def.Source.Range, ErrUnknownKind, def.Kind)
	}
	n, err := factory(b.env(), def)
	if err != nil {
		return graph.NodeRef{}, fmt.Errorf("%s: %w", def.Source.Range, err)
	}
	ref, err := g.AddNode(def.Name, n)
	if err != nil {
		return graph.NodeRef{}, fmt.Errorf("%s: %w", def.Source.Range, err)
	}

	for _, childDef := range def.Children {
		child, err := b.addNode(g, childDef)
		if err != nil {
			return graph.NodeRef{}, err
		}
		conn, err := edgeFor(n, childDef)
		if err != nil {
			return graph.NodeRef{}, fmt.Errorf("%s: %w", childDef.Source.Range, err)
		}
		if _, err := g.Connect(ref.Handle(), child.Handle(), -1, conn); err != nil {
			return graph.NodeRef{}, fmt.Errorf("%s: %q -> %q: %w", childDef.Source.Range, def.Name, childDef.Name, err)
		}
	}
	return ref, nil
}

// edgeFor creates the connection configured by a child's edge block. Without
// one, the graph picks the default connection.
func edgeFor(parent graph.Node, child *config.NodeDef) (graph.Connection, error) {
	if len(child.Edge) == 0 {
		return nil, nil
	}
	factory, ok := parent.(graph.ConnectionFactory)
	if !ok {
		return nil, errors.New("parent does not accept edge arguments")
	}
	conn := factory.NewConnection()
	if err := registry.Decode(child.Edge, conn); err != nil {
		return nil, fmt.Errorf("edge of %q: %w", child.Name, err)
	}
	return conn, nil
}

// Machine builds a fresh instance of the named state machine.
func (b *Builder) Machine(name string) (*fsm.Machine, error) {
	def := b.findMachine(name)
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGraph, name)
	}
	if b.building[name] {
		return nil, fmt.Errorf("%w: %q", ErrRecursiveGraph, name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	m, err := b.machine(def)
	if err != nil {
		return nil, fmt.Errorf("fsm %q: %w", def.Name, err)
	}
	return m, nil
}

func (b *Builder) machine(def *config.MachineDef) (*fsm.Machine, error) {
	m := fsm.New(def.Name, b.opts...)

	refs := make(map[string]graph.NodeRef, len(def.States))
	for _, sd := range def.States {
		st := &fsm.State{}
		if err := registry.Decode(sd.Args, st); err != nil {
			return nil, fmt.Errorf("%s: state %q: %w", sd.Source.Range, sd.Name, err)
		}
		if sd.Action != nil {
			a, err := b.Action(sd.Action)
			if err != nil {
				return nil, fmt.Errorf("state %q: %w", sd.Name, err)
			}
			st.Action = a
		}
		ref, err := m.AddNode(sd.Name, st)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sd.Source.Range, err)
		}
		refs[sd.Name] = ref
	}

	initial := def.Initial
	if initial == "" && len(def.States) > 0 {
		initial = def.States[0].Name
	}
	start, ok := refs[initial]
	if !ok {
		return nil, fmt.Errorf("%s: initial state %q is not defined", def.Source.Range, initial)
	}
	if err := m.SetPrime(start.Handle()); err != nil {
		return nil, err
	}

	for _, sd := range def.States {
		for _, td := range sd.Transitions {
			if err := b.transition(m, refs, refs[sd.Name], td); err != nil {
				return nil, fmt.Errorf("state %q: %w", sd.Name, err)
			}
		}
	}

	if len(def.Any) > 0 {
		anyRef, err := m.AddNode(AnyStateName, &fsm.AnyState{Retrigger: def.AnyRetrigger})
		if err != nil {
			return nil, err
		}
		for _, td := range def.Any {
			if err := b.transition(m, refs, anyRef, td); err != nil {
				return nil, fmt.Errorf("%s: %w", AnyStateName, err)
			}
		}
	}
	return m, nil
}

func (b *Builder) transition(m *fsm.Machine, refs map[string]graph.NodeRef, from graph.NodeRef, td *config.TransitionDef) error {
	to, ok := refs[td.To]
	if !ok {
		return fmt.Errorf("%s: transition to unknown state %q", td.Source.Range, td.To)
	}
	var conn graph.Connection
	if td.Condition != nil {
		c, err := b.Condition(td.Condition)
		if err != nil {
			return err
		}
		conn = &graph.ConditionalConnection{Condition: c}
	}
	if _, err := m.Connect(from.Handle(), to.Handle(), -1, conn); err != nil {
		return fmt.Errorf("%s: %q -> %q: %w", td.Source.Range, from.Name(), td.To, err)
	}
	return nil
}
