package testutil

import (
	"sync"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// RecorderModule registers a "record" action that counts its executions per
// id and replays a fixed list of results, repeating the last one.
//
//	action "record" {
//	  id      = "patrol"
//	  results = ["running", "success"]
//	}
type RecorderModule struct {
	mu    sync.Mutex
	calls map[string]int
}

// NewRecorderModule creates an empty recorder.
func NewRecorderModule() *RecorderModule {
	return &RecorderModule{calls: make(map[string]int)}
}

// Calls returns how many times actions with id have executed, across every
// session.
func (m *RecorderModule) Calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

func (m *RecorderModule) hit(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id]++
	return m.calls[id]
}

// Register registers the "record" action.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterAction("record", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &recordAction{module: m}
		return a, registry.Decode(def.Args, a)
	})
}

type recordAction struct {
	task.Lifecycle
	ID      string          `arg:"id,required"`
	Results []status.Status `arg:"results"`

	module *RecorderModule
	step   int
}

func (a *recordAction) Execute(any, *blackboard.Blackboard) status.Status {
	a.module.hit(a.ID)
	if len(a.Results) == 0 {
		return status.Success
	}
	st := a.Results[min(a.step, len(a.Results)-1)]
	a.step++
	return st
}

// Start replays the script from the top on every run.
func (a *recordAction) Start(any, *blackboard.Blackboard) { a.step = 0 }
