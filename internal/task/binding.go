package task

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

// ErrMissingBinding is returned by Init when a required handle neither names
// a variable nor holds an assigned literal.
var ErrMissingBinding = errors.New("missing required binding")

// Binder is the non-generic surface of blackboard.Param used during binding.
type Binder interface {
	Bind(bb *blackboard.Blackboard)
	Name() string
	UseBlackboard() bool
	IsNone() bool
	IsSet() bool
	MarkBlackboardOnly()
}

// Binding describes one variable handle of a task or node.
type Binding struct {
	Field          string
	Param          Binder
	Required       bool
	BlackboardOnly bool
}

// Bindable is implemented by tasks and nodes that carry variable handles.
type Bindable interface {
	Bindings() []Binding
}

// Init binds every declared handle of target to bb, enforces the declared
// constraints and then runs target's own Initializer, if any.
func Init(target any, bb *blackboard.Blackboard) error {
	if target == nil {
		return nil
	}

	var errs []error
	if b, ok := target.(Bindable); ok {
		for _, bd := range b.Bindings() {
			if bd.Param == nil {
				continue
			}
			if bd.BlackboardOnly {
				bd.Param.MarkBlackboardOnly()
			}
			bd.Param.Bind(bb)
			if bd.Required && !bd.Param.IsSet() {
				errs = append(errs, fmt.Errorf("%w: %s", ErrMissingBinding, bd.Field))
			}
		}
	}
	if in, ok := target.(Initializer); ok {
		if err := in.Init(bb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitAll runs Init on each target and joins the failures.
func InitAll(bb *blackboard.Blackboard, targets ...any) error {
	var errs []error
	for _, t := range targets {
		if err := Init(t, bb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
