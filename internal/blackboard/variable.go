package blackboard

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Variable is a single typed slot of a Blackboard.
type Variable struct {
	id      uuid.UUID
	name    string
	typ     cty.Type
	value   cty.Value
	removed bool

	// changed is installed by the owning store to fan out notifications.
	changed func(v *Variable, old cty.Value)
}

func newVariable(name string, typ cty.Type) *Variable {
	if typ == cty.NilType {
		typ = cty.DynamicPseudoType
	}
	return &Variable{
		id:    uuid.New(),
		name:  name,
		typ:   typ,
		value: cty.NullVal(typ),
	}
}

// ID returns the slot's stable identity. It survives renames.
func (v *Variable) ID() uuid.UUID { return v.id }

// Name returns the slot's current name.
func (v *Variable) Name() string { return v.name }

// Type returns the declared type. cty.DynamicPseudoType accepts any value.
func (v *Variable) Type() cty.Type { return v.typ }

// Value returns the current value; a slot that was never written holds a
// typed null.
func (v *Variable) Value() cty.Value { return v.value }

// Removed reports whether the slot was deleted from its store.
func (v *Variable) Removed() bool { return v.removed }

// Set converts val to the declared type and stores it.
func (v *Variable) Set(val cty.Value) error {
	if val == cty.NilVal {
		val = cty.NullVal(v.typ)
	}
	if v.typ != cty.DynamicPseudoType {
		converted, err := convert.Convert(val, v.typ)
		if err != nil {
			return fmt.Errorf("%w: variable %q expects %s, got %s: %v",
				ErrTypeMismatch, v.name, v.typ.FriendlyName(), val.Type().FriendlyName(), err)
		}
		val = converted
	}

	old := v.value
	v.value = val
	if v.changed != nil && !old.RawEquals(val) {
		v.changed(v, old)
	}
	return nil
}
