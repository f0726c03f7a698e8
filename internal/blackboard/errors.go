package blackboard

import "errors"

var (
	// ErrDuplicateVariable is returned when a store already holds a slot with the same name.
	ErrDuplicateVariable = errors.New("duplicate variable name")
	// ErrDuplicateStore is returned when a shared store name is already registered.
	ErrDuplicateStore = errors.New("duplicate shared blackboard name")
	// ErrUnresolved is returned when a Param cannot be resolved to a slot.
	ErrUnresolved = errors.New("unresolved variable")
	// ErrTypeMismatch is returned when a value cannot be converted to a slot's declared type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotFound is returned when a named slot does not exist.
	ErrNotFound = errors.New("variable not found")
	// ErrBlackboardOnly is returned when a literal is assigned to a reference-only handle.
	ErrBlackboardOnly = errors.New("handle only accepts variable references")
)
