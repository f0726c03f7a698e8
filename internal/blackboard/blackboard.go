package blackboard

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Observer is called after a slot's value changed.
type Observer func(name string, old, current cty.Value)

type observer struct {
	fn     Observer
	active bool
}

// Blackboard is a named store of typed slots with O(1) lookup by name.
type Blackboard struct {
	name     string
	vars     map[string]*Variable
	order    []string
	registry *Registry
	shared   bool
	logger   *slog.Logger

	observers map[string][]*observer
}

// Option configures a Blackboard at construction.
type Option func(*Blackboard)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Blackboard) { b.logger = logger }
}

// WithRegistry attaches the session registry used to resolve "store/name" paths.
func WithRegistry(r *Registry) Option {
	return func(b *Blackboard) { b.registry = r }
}

// New creates an empty store.
func New(name string, opts ...Option) *Blackboard {
	b := &Blackboard{
		name:      name,
		vars:      make(map[string]*Variable),
		logger:    slog.Default(),
		observers: make(map[string][]*observer),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Blackboard) Name() string { return b.name }

// Shared reports whether the store is registered for "store/name" addressing.
func (b *Blackboard) Shared() bool { return b.shared }

// Registry returns the session registry used for cross-store resolution, if any.
func (b *Blackboard) Registry() *Registry { return b.registry }

// Logger returns the store's diagnostic logger.
func (b *Blackboard) Logger() *slog.Logger { return b.logger }

// Len returns the number of slots.
func (b *Blackboard) Len() int { return len(b.vars) }

// AddVariable creates a new slot. A name collision is reported and leaves
// the existing slot untouched.
func (b *Blackboard) AddVariable(name string, typ cty.Type) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("blackboard %q: variable name cannot be empty", b.name)
	}
	if _, exists := b.vars[name]; exists {
		b.logger.Error("Variable name collision.", "blackboard", b.name, "variable", name)
		return nil, fmt.Errorf("blackboard %q: %w: %q", b.name, ErrDuplicateVariable, name)
	}
	v := newVariable(name, typ)
	b.attach(v)
	return v, nil
}

func (b *Blackboard) attach(v *Variable) {
	v.changed = b.notify
	b.vars[v.name] = v
	b.order = append(b.order, v.name)
}

// Variable looks up a slot by name.
func (b *Blackboard) Variable(name string) (*Variable, bool) {
	v, ok := b.vars[name]
	return v, ok
}

// Variables returns the slots in creation order.
func (b *Blackboard) Variables() []*Variable {
	out := make([]*Variable, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.vars[name])
	}
	return out
}

// GetValue returns the slot's value, or false when no such slot exists.
func (b *Blackboard) GetValue(name string) (cty.Value, bool) {
	v, ok := b.vars[name]
	if !ok {
		return cty.NilVal, false
	}
	return v.value, true
}

// SetValue writes to a slot, creating it with the value's own type when the
// name is unknown.
func (b *Blackboard) SetValue(name string, val cty.Value) (*Variable, error) {
	v, ok := b.vars[name]
	if !ok {
		typ := cty.DynamicPseudoType
		if val != cty.NilVal && !val.IsNull() {
			typ = val.Type()
		}
		created, err := b.AddVariable(name, typ)
		if err != nil {
			return nil, err
		}
		v = created
	}
	if err := v.Set(val); err != nil {
		return v, fmt.Errorf("blackboard %q: %w", b.name, err)
	}
	return v, nil
}

// RemoveVariable deletes a slot. Handles that cached it re-resolve on next use.
func (b *Blackboard) RemoveVariable(name string) bool {
	v, ok := b.vars[name]
	if !ok {
		return false
	}
	v.removed = true
	v.changed = nil
	delete(b.vars, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
	delete(b.observers, name)
	return true
}

// RenameVariable moves a slot to a new name while keeping its identity.
func (b *Blackboard) RenameVariable(from, to string) error {
	v, ok := b.vars[from]
	if !ok {
		return fmt.Errorf("blackboard %q: %w: %q", b.name, ErrNotFound, from)
	}
	if from == to {
		return nil
	}
	if _, exists := b.vars[to]; exists {
		return fmt.Errorf("blackboard %q: %w: %q", b.name, ErrDuplicateVariable, to)
	}
	delete(b.vars, from)
	v.name = to
	b.vars[to] = v
	if i := slices.Index(b.order, from); i >= 0 {
		b.order[i] = to
	}
	if obs, ok := b.observers[from]; ok {
		b.observers[to] = obs
		delete(b.observers, from)
	}
	return nil
}

// Clear tears down every slot.
func (b *Blackboard) Clear() {
	for _, name := range slices.Clone(b.order) {
		b.RemoveVariable(name)
	}
}

// Clone copies every slot into a new, unshared store using the same registry.
func (b *Blackboard) Clone(name string) *Blackboard {
	c := New(name, WithLogger(b.logger), WithRegistry(b.registry))
	for _, v := range b.Variables() {
		nv := newVariable(v.name, v.typ)
		nv.value = v.value
		c.attach(nv)
	}
	return c
}

// Observe subscribes fn to changes of the named slot. The returned function
// cancels the subscription.
func (b *Blackboard) Observe(name string, fn Observer) (cancel func()) {
	o := &observer{fn: fn, active: true}
	b.observers[name] = append(b.observers[name], o)
	return func() {
		o.active = false
		b.observers[name] = slices.DeleteFunc(b.observers[name], func(x *observer) bool { return x == o })
	}
}

func (b *Blackboard) notify(v *Variable, old cty.Value) {
	for _, o := range slices.Clone(b.observers[v.name]) {
		if o.active {
			o.fn(v.name, old, v.value)
		}
	}
}
