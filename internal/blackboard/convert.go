package blackboard

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Native converts a cty value into plain Go values: string, bool, int64 or
// float64, []any and map[string]any. Null and unknown values become nil.
func Native(v cty.Value) any {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, Native(ev))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = Native(ev)
		}
		return out
	case ty.IsCapsuleType():
		return v.EncapsulatedValue()
	}
	return nil
}

// FromNative is the inverse of Native. Values that are neither primitives nor
// generic containers fall back to gocty's implied type.
func FromNative(x any) (cty.Value, error) {
	switch t := x.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return t, nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int32:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case uint:
		return cty.NumberUIntVal(uint64(t)), nil
	case uint64:
		return cty.NumberUIntVal(t), nil
	case float32:
		return cty.NumberFloatVal(float64(t)), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			ev, err := FromNative(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(t))
		for _, k := range keys {
			ev, err := FromNative(t[k])
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(x)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot represent %T as a blackboard value: %w", x, err)
	}
	return gocty.ToCtyValue(x, ty)
}

// decode turns a slot value into T. Null values decode to T's zero value.
func decode[T any](val cty.Value) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *cty.Value:
		*p = val
		return out, nil
	case *any:
		*p = Native(val)
		return out, nil
	}
	if val == cty.NilVal || val.IsNull() || !val.IsKnown() {
		return out, nil
	}

	ty, err := gocty.ImpliedType(out)
	if err != nil {
		return out, fmt.Errorf("unsupported handle type %T: %w", out, err)
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return out, fmt.Errorf("%w: cannot read %s as %s: %v", ErrTypeMismatch, val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return out, nil
}

// encode turns v into a cty value, preferring the slot's declared type.
func encode[T any](v T, ty cty.Type) (cty.Value, error) {
	if cv, ok := any(v).(cty.Value); ok {
		return cv, nil
	}
	if ty != cty.NilType && ty != cty.DynamicPseudoType {
		if cv, err := gocty.ToCtyValue(v, ty); err == nil {
			return cv, nil
		}
	}
	return FromNative(any(v))
}

// Get reads a named slot as T.
func Get[T any](b *Blackboard, name string) (T, error) {
	var zero T
	v, ok := b.Variable(name)
	if !ok {
		return zero, fmt.Errorf("blackboard %q: %w: %q", b.name, ErrNotFound, name)
	}
	return decode[T](v.Value())
}

// Set writes v to a named slot, creating the slot when it does not exist.
func Set[T any](b *Blackboard, name string, v T) error {
	ty := cty.DynamicPseudoType
	if slot, ok := b.Variable(name); ok {
		ty = slot.Type()
	}
	val, err := encode(v, ty)
	if err != nil {
		return fmt.Errorf("blackboard %q: variable %q: %w", b.name, name, err)
	}
	_, err = b.SetValue(name, val)
	return err
}
