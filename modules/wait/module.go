// Package wait provides the "wait" action, which holds a branch Running for
// a number of seconds of graph time.
package wait

import (
	"time"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Wait is Running until Seconds of graph time passed since it started, then
// finishes with Finish (Success by default).
type Wait struct {
	task.Lifecycle

	Seconds blackboard.Param[float64] `arg:"seconds,required"`
	Finish  status.Status             `arg:"finish"`

	clock   task.Clock
	started time.Duration
	wall    time.Time
}

func (w *Wait) Bindings() []task.Binding {
	return []task.Binding{{Field: "seconds", Param: &w.Seconds}}
}

func (w *Wait) SetClock(c task.Clock) { w.clock = c }

func (w *Wait) now() time.Duration {
	if w.clock != nil {
		return w.clock.Elapsed()
	}
	if w.wall.IsZero() {
		w.wall = time.Now()
	}
	return time.Since(w.wall)
}

func (w *Wait) Start(any, *blackboard.Blackboard) {
	w.started = w.now()
}

func (w *Wait) Execute(any, *blackboard.Blackboard) status.Status {
	limit := time.Duration(w.Seconds.Get() * float64(time.Second))
	if w.now()-w.started < limit {
		return status.Running
	}
	if !w.Finish.Finished() {
		return status.Success
	}
	return w.Finish
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("wait", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &Wait{}
		return a, registry.Decode(def.Args, a)
	})
}
