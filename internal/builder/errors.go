package builder

import "errors"

var (
	// ErrUnknownGraph is returned when no tree or state machine has the
	// requested name.
	ErrUnknownGraph = errors.New("unknown graph")
	// ErrUnknownKind is returned for a kind missing from the registry.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrRecursiveGraph is returned when a graph contains itself through
	// sub-trees.
	ErrRecursiveGraph = errors.New("graph includes itself")
	// ErrUnknownBlackboard is returned for a reference to an undeclared
	// blackboard.
	ErrUnknownBlackboard = errors.New("unknown blackboard")
)
