package bt

import "fmt"

var (
	repeatModes  = map[string]RepeatMode{"times": RepeatTimes, "until": RepeatUntil, "forever": RepeatForever}
	policies     = map[string]ParallelPolicy{"first_failure": FirstFailure, "first_success": FirstSuccess, "first_result": FirstResult}
	terminations = map[string]Termination{"none": TerminateNone, "first_success": TerminateOnSuccess, "first_failure": TerminateOnFailure}
)

func lookup[T any](what string, m map[string]T, text []byte) (T, error) {
	v, ok := m[string(text)]
	if !ok {
		return v, fmt.Errorf("unknown %s %q", what, text)
	}
	return v, nil
}

func (m *RepeatMode) UnmarshalText(text []byte) (err error) {
	*m, err = lookup("repeat mode", repeatModes, text)
	return err
}

func (p *ParallelPolicy) UnmarshalText(text []byte) (err error) {
	*p, err = lookup("parallel policy", policies, text)
	return err
}

func (t *Termination) UnmarshalText(text []byte) (err error) {
	*t, err = lookup("termination", terminations, text)
	return err
}
