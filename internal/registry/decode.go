package registry

import (
	"encoding"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
)

// TagName is the struct tag that maps a field to an argument name. A
// ",required" option makes the argument mandatory.
const TagName = "arg"

// ErrUnknownArgument is returned for arguments no field accepts.
var ErrUnknownArgument = errors.New("unknown argument")

// ErrMissingArgument is returned when a required argument is absent.
var ErrMissingArgument = errors.New("missing required argument")

type field struct {
	name     string
	required bool
	value    reflect.Value
}

// Decode fills the arg-tagged fields of target, a pointer to a struct, from
// args. blackboard.Param fields accept literals and variable references;
// every other field accepts literals only.
func Decode(args config.Args, target any) error {
	fields, err := fieldsOf(target)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(args)) {
		if !slices.ContainsFunc(fields, func(f field) bool { return f.name == name }) {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownArgument, name))
		}
	}
	for _, f := range fields {
		arg, ok := args[f.name]
		if !ok {
			if f.required {
				errs = append(errs, fmt.Errorf("%w %q", ErrMissingArgument, f.name))
			}
			continue
		}
		if err := decodeField(f.value, arg); err != nil {
			errs = append(errs, fmt.Errorf("argument %q: %w", f.name, err))
		}
	}
	return errors.Join(errs...)
}

// Arguments lists the argument names target accepts.
func Arguments(target any) []string {
	fields, err := fieldsOf(target)
	if err != nil {
		return nil
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

func fieldsOf(target any) ([]field, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	v = v.Elem()
	t := v.Type()

	var out []field
	for i := range t.NumField() {
		def := t.Field(i)
		if !def.IsExported() {
			continue
		}
		tag := def.Tag.Get(TagName)
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		out = append(out, field{name: name, required: opts == "required", value: v.Field(i)})
	}
	return out, nil
}

func decodeField(f reflect.Value, arg config.Arg) error {
	switch p := f.Addr().Interface().(type) {
	case blackboard.Assigner:
		if arg.IsRef() {
			p.AssignRef(arg.Ref)
			return nil
		}
		if arg.Value == cty.NilVal && arg.Expr != nil {
			return fmt.Errorf("expression at %s is neither a constant nor a variable reference", arg.Expr.Range())
		}
		return p.AssignLiteral(arg.Value)
	case *hcl.Expression:
		*p = arg.Expr
		return nil
	}

	if arg.IsRef() {
		return fmt.Errorf("variable reference %q not accepted here", arg.Ref)
	}
	if arg.Value == cty.NilVal && arg.Expr != nil {
		return fmt.Errorf("expression at %s is not a constant", arg.Expr.Range())
	}
	return decodeValue(arg.Value, f)
}

// decodeValue populates a Go value from a literal, converting through the
// type implied by the Go field.
func decodeValue(val cty.Value, goVal reflect.Value) error {
	if val == cty.NilVal || !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch p := goVal.Addr().Interface().(type) {
	case *cty.Value:
		*p = val
		return nil
	case *any:
		*p = blackboard.Native(val)
		return nil
	case encoding.TextUnmarshaler:
		s, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
		}
		return p.UnmarshalText([]byte(s.AsString()))
	}

	if goVal.Kind() == reflect.Slice && val.Type().IsTupleType() {
		elems := val.AsValueSlice()
		out := reflect.MakeSlice(goVal.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := decodeValue(e, out.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		goVal.Set(out)
		return nil
	}

	ty, err := gocty.ImpliedType(goVal.Interface())
	if err != nil {
		return fmt.Errorf("unsupported field type %s: %w", goVal.Type(), err)
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("cannot use %s as %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, goVal.Addr().Interface())
}
