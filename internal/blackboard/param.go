package blackboard

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Separator splits a "store/name" path into a shared store name and a
// variable name.
const Separator = "/"

// Param is a typed handle that either holds a literal value or refers to a
// slot by name. The zero value is an unassigned literal holding T's zero
// value.
type Param[T any] struct {
	name           string
	useBlackboard  bool
	blackboardOnly bool
	literal        T
	assigned       bool

	bb   *Blackboard
	slot *Variable
}

// Literal returns a handle holding v.
func Literal[T any](v T) Param[T] {
	return Param[T]{literal: v, assigned: true}
}

// Ref returns a handle referring to the named slot.
func Ref[T any](name string) Param[T] {
	return Param[T]{name: name, useBlackboard: true}
}

// RefOnly returns a handle that can never be switched to literal mode.
func RefOnly[T any](name string) Param[T] {
	return Param[T]{name: name, useBlackboard: true, blackboardOnly: true}
}

// Name returns the configured variable name or path.
func (p *Param[T]) Name() string { return p.name }

// UseBlackboard reports whether the handle refers to a slot.
func (p *Param[T]) UseBlackboard() bool { return p.useBlackboard }

// BlackboardOnly reports whether literal mode is forbidden.
func (p *Param[T]) BlackboardOnly() bool { return p.blackboardOnly }

// Blackboard returns the bound store.
func (p *Param[T]) Blackboard() *Blackboard { return p.bb }

// SetUseBlackboard switches between literal and reference mode. Leaving
// reference mode clears the name and the cached slot. Blackboard-only
// handles ignore requests to leave reference mode.
func (p *Param[T]) SetUseBlackboard(on bool) {
	if !on && p.blackboardOnly {
		return
	}
	p.useBlackboard = on
	if !on {
		p.name = ""
		p.slot = nil
	}
}

// MarkBlackboardOnly forces reference mode for the rest of the handle's life.
func (p *Param[T]) MarkBlackboardOnly() {
	p.blackboardOnly = true
	p.useBlackboard = true
}

// SetName changes the referenced name. A non-empty name switches the handle
// to reference mode.
func (p *Param[T]) SetName(name string) {
	if name == p.name {
		return
	}
	p.name = name
	p.slot = nil
	if name != "" {
		p.useBlackboard = true
	}
}

// Bind sets the handle's own store. Rebinding to a different store drops the
// memoized slot.
func (p *Param[T]) Bind(bb *Blackboard) {
	if bb == p.bb {
		return
	}
	p.bb = bb
	p.slot = nil
}

// IsNone reports a reference handle with no name, the explicit unset state.
func (p *Param[T]) IsNone() bool {
	return p.useBlackboard && p.name == ""
}

// IsSet reports whether the handle names a variable or holds a literal that
// was assigned explicitly.
func (p *Param[T]) IsSet() bool {
	if p.useBlackboard {
		return p.name != ""
	}
	return p.assigned
}

// IsDefined reports whether the handle would resolve to a slot right now.
func (p *Param[T]) IsDefined() bool {
	if !p.useBlackboard {
		return false
	}
	_, err := p.Resolve()
	return err == nil
}

// Resolve returns the referenced slot. The result is memoized until the bound
// store or the name changes, or the slot is removed from its store.
func (p *Param[T]) Resolve() (*Variable, error) {
	if !p.useBlackboard {
		return nil, fmt.Errorf("%w: handle holds a literal", ErrUnresolved)
	}
	if p.slot != nil && !p.slot.removed {
		return p.slot, nil
	}
	p.slot = nil

	store, name, err := p.target()
	if err != nil {
		return nil, err
	}
	v, ok := store.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q not found in blackboard %q", ErrUnresolved, name, store.name)
	}
	p.slot = v
	return v, nil
}

// target selects the store and variable name addressed by the handle.
func (p *Param[T]) target() (*Blackboard, string, error) {
	if p.name == "" {
		return nil, "", fmt.Errorf("%w: no variable name set", ErrUnresolved)
	}
	if storeName, varName, ok := strings.Cut(p.name, Separator); ok {
		if p.bb == nil {
			return nil, "", fmt.Errorf("%w: %q has no bound blackboard to reach shared stores from", ErrUnresolved, p.name)
		}
		shared, found := p.bb.registry.Lookup(storeName)
		if !found {
			return nil, "", fmt.Errorf("%w: no shared blackboard named %q", ErrUnresolved, storeName)
		}
		return shared, varName, nil
	}
	if p.bb == nil {
		return nil, "", fmt.Errorf("%w: %q has no bound blackboard", ErrUnresolved, p.name)
	}
	return p.bb, p.name, nil
}

// Get returns the handle's value. An unresolved reference logs a diagnostic
// and yields T's zero value.
func (p *Param[T]) Get() T {
	v, err := p.Value()
	if err != nil {
		p.logger().Warn("Reading unresolved variable, using default value.", "variable", p.name, "error", err)
	}
	return v
}

// Value is Get with the diagnostic returned instead of logged.
func (p *Param[T]) Value() (T, error) {
	if !p.useBlackboard {
		return p.literal, nil
	}
	var zero T
	slot, err := p.Resolve()
	if err != nil {
		return zero, err
	}
	return decode[T](slot.Value())
}

// Set writes v to the literal or to the referenced slot. A reference whose
// store is reachable but whose slot does not exist yet creates the slot.
// Writing through an unresolvable reference changes nothing and returns the
// reason.
func (p *Param[T]) Set(v T) error {
	if !p.useBlackboard {
		p.literal = v
		p.assigned = true
		return nil
	}

	store, name, err := p.target()
	if err != nil {
		p.logger().Warn("Write to unresolved variable ignored.", "variable", p.name, "error", err)
		return err
	}
	if p.slot == nil || p.slot.removed {
		p.slot, _ = store.Variable(name)
	}

	ty := cty.DynamicPseudoType
	if p.slot != nil {
		ty = p.slot.Type()
	}
	val, err := encode(v, ty)
	if err != nil {
		return fmt.Errorf("variable %q: %w", p.name, err)
	}
	if p.slot == nil {
		slot, err := store.SetValue(name, val)
		if err != nil {
			return err
		}
		p.slot = slot
		return nil
	}
	return p.slot.Set(val)
}

// Literal returns the literal backing value regardless of mode.
func (p *Param[T]) Literal() T { return p.literal }

func (p *Param[T]) String() string {
	if p.useBlackboard {
		if p.name == "" {
			return "<none>"
		}
		return "$" + p.name
	}
	return fmt.Sprint(p.literal)
}

func (p *Param[T]) logger() *slog.Logger {
	if p.bb != nil && p.bb.logger != nil {
		return p.bb.logger
	}
	return slog.Default()
}

// Assigner is the non-generic surface definition loaders use to fill a
// handle from configuration.
type Assigner interface {
	AssignLiteral(v cty.Value) error
	AssignRef(name string)
}

// AssignLiteral decodes v into the literal and switches to literal mode.
func (p *Param[T]) AssignLiteral(v cty.Value) error {
	if p.blackboardOnly {
		return fmt.Errorf("%w: got a literal %s", ErrBlackboardOnly, v.Type().FriendlyName())
	}
	lit, err := decode[T](v)
	if err != nil {
		return err
	}
	p.SetUseBlackboard(false)
	p.literal = lit
	p.assigned = true
	return nil
}

// AssignRef switches to reference mode on name.
func (p *Param[T]) AssignRef(name string) {
	p.useBlackboard = true
	p.SetName(name)
}
