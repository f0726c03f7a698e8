package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/session"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module is the interface every module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Builder gives factories access to the rest of the definition being built.
type Builder interface {
	Action(def *config.TaskDef) (task.Action, error)
	Condition(def *config.TaskDef) (task.Condition, error)
	// Tree returns a fresh instance of the named tree, for sub-trees.
	Tree(name string) (*graph.Graph, error)
}

// Env is passed to every factory.
type Env struct {
	Session *session.Session
	Build   Builder
}

type (
	NodeFactory      func(env Env, def *config.NodeDef) (graph.Node, error)
	ActionFactory    func(env Env, def *config.TaskDef) (task.Action, error)
	ConditionFactory func(env Env, def *config.TaskDef) (task.Condition, error)
)

// Registry holds the factories for a single application instance.
type Registry struct {
	nodes      map[string]NodeFactory
	actions    map[string]ActionFactory
	conditions map[string]ConditionFactory
}

// New creates an empty registry and registers mods into it.
func New(mods ...Module) *Registry {
	r := &Registry{
		nodes:      make(map[string]NodeFactory),
		actions:    make(map[string]ActionFactory),
		conditions: make(map[string]ConditionFactory),
	}
	for _, m := range mods {
		m.Register(r)
	}
	return r
}

func register[F any](m map[string]F, what, name string, f F) {
	if _, exists := m[name]; exists {
		panic(fmt.Sprintf("%s kind '%s' already registered", what, name))
	}
	slog.Debug("Registering kind.", "what", what, "name", name)
	m[name] = f
}

// RegisterNode registers a tree node kind.
func (r *Registry) RegisterNode(name string, f NodeFactory) { register(r.nodes, "node", name, f) }

// RegisterAction registers an action kind.
func (r *Registry) RegisterAction(name string, f ActionFactory) {
	register(r.actions, "action", name, f)
}

// RegisterCondition registers a condition kind.
func (r *Registry) RegisterCondition(name string, f ConditionFactory) {
	register(r.conditions, "condition", name, f)
}

func (r *Registry) Node(kind string) (NodeFactory, bool) {
	f, ok := r.nodes[kind]
	return f, ok
}

func (r *Registry) Action(kind string) (ActionFactory, bool) {
	f, ok := r.actions[kind]
	return f, ok
}

func (r *Registry) Condition(kind string) (ConditionFactory, bool) {
	f, ok := r.conditions[kind]
	return f, ok
}

// Kinds lists the registered names per category, sorted.
func (r *Registry) Kinds() map[string][]string {
	return map[string][]string{
		"node":      slices.Sorted(maps.Keys(r.nodes)),
		"action":    slices.Sorted(maps.Keys(r.actions)),
		"condition": slices.Sorted(maps.Keys(r.conditions)),
	}
}
