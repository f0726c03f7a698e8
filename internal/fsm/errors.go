package fsm

import "errors"

var (
	// ErrSameState is returned when entering the state that is already current.
	ErrSameState = errors.New("state is already current")
	// ErrUnknownState is returned for a state that is not part of the machine.
	ErrUnknownState = errors.New("unknown state")
	// ErrNotRunning is returned when entering a state of a stopped machine.
	ErrNotRunning = errors.New("machine is not running")
)
