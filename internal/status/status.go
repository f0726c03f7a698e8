// Package status defines the five-valued result every node and connection
// returns from an execution.
package status

import (
	"fmt"
	"strings"
)

// Status is the outcome of executing a node, a connection or an action.
type Status int

const (
	// Resting means never executed, or fully reset since the last execution.
	Resting Status = iota
	Success
	Failure
	Running
	// Error is terminal for the tick that produced it.
	Error
)

var names = [...]string{
	Resting: "resting",
	Success: "success",
	Failure: "failure",
	Running: "running",
	Error:   "error",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return names[s]
}

// Finished reports whether s ends an execution pass (Success, Failure or Error).
func (s Status) Finished() bool {
	return s == Success || s == Failure || s == Error
}

// Invert swaps Success and Failure and leaves every other status untouched.
func (s Status) Invert() Status {
	switch s {
	case Success:
		return Failure
	case Failure:
		return Success
	}
	return s
}

// Parse converts a case-insensitive status name into a Status.
func Parse(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == needle {
			return Status(i), nil
		}
	}
	return Resting, fmt.Errorf("unknown status %q", s)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
