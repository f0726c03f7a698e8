package print

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Print writes Message to the graph's logger together with the current
// values of the listed blackboard variables.
type Print struct {
	task.Lifecycle
	task.Contextual

	Message   blackboard.Param[string] `arg:"message"`
	Level     slog.Level               `arg:"level"`
	Variables []string                 `arg:"variables"`
}

func (p *Print) Bindings() []task.Binding {
	return []task.Binding{{Field: "message", Param: &p.Message}}
}

func (p *Print) Execute(agent any, bb *blackboard.Blackboard) status.Status {
	attrs := make([]any, 0, 2*len(p.Variables)+2)
	if agent != nil {
		attrs = append(attrs, "agent", fmt.Sprint(agent))
	}

	// Sort keys for consistent output
	names := append([]string(nil), p.Variables...)
	sort.Strings(names)
	for _, name := range names {
		var val any = "(null)"
		if bb != nil {
			if v, ok := bb.GetValue(name); ok && !v.IsNull() {
				val = blackboard.Native(v)
			}
		}
		attrs = append(attrs, name, val)
	}

	ctxlog.FromContext(p.Context()).Log(p.Context(), p.Level, p.Message.Get(), attrs...)
	return status.Success
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("print", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &Print{}
		return a, registry.Decode(def.Args, a)
	})
}
