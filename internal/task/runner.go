package task

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Runner drives one Action through its start, execute, stop and pause
// lifecycle and remembers the last status.
type Runner struct {
	action Action
	status status.Status
	paused bool
}

// NewRunner wraps a.
func NewRunner(a Action) *Runner {
	return &Runner{action: a}
}

func (r *Runner) Action() Action { return r.action }

func (r *Runner) Status() status.Status { return r.status }

// Running reports whether the action is mid-run.
func (r *Runner) Running() bool { return r.status == status.Running }

// Execute starts the action if it is not running and advances it by one tick.
func (r *Runner) Execute(agent any, bb *blackboard.Blackboard) status.Status {
	if r.action == nil {
		r.status = status.Failure
		return r.status
	}
	if r.status != status.Running {
		if s, ok := r.action.(Starter); ok {
			s.Start(agent, bb)
		}
	}
	r.paused = false
	r.status = r.action.Execute(agent, bb)
	return r.status
}

// Stop halts a running action and returns the runner to Resting.
func (r *Runner) Stop() {
	if r.status == status.Running && r.action != nil {
		r.action.Stop()
	}
	r.status = status.Resting
	r.paused = false
}

// Pause suspends a running action once; the next Execute resumes it.
func (r *Runner) Pause() {
	if r.status == status.Running && !r.paused && r.action != nil {
		r.paused = true
		r.action.Pause()
	}
}
