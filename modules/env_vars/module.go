package env_vars

import (
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvVars copies process environment variables into a map variable. Only
// names starting with Prefix are taken; StripPrefix drops it from the keys.
type EnvVars struct {
	task.Lifecycle

	Into        blackboard.Param[cty.Value] `arg:"into,required"`
	Prefix      string                      `arg:"prefix"`
	StripPrefix bool                        `arg:"strip_prefix"`

	// Environ defaults to os.Environ.
	Environ func() []string
}

func (e *EnvVars) Bindings() []task.Binding {
	return []task.Binding{{Field: "into", Param: &e.Into, Required: true, BlackboardOnly: true}}
}

func (e *EnvVars) Execute(any, *blackboard.Blackboard) status.Status {
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}

	envMap := make(map[string]cty.Value)
	for _, kv := range environ() {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], e.Prefix) {
			continue
		}
		key := pair[0]
		if e.StripPrefix {
			key = strings.TrimPrefix(key, e.Prefix)
		}
		if key == "" {
			continue
		}
		envMap[key] = cty.StringVal(pair[1])
	}

	val := cty.MapValEmpty(cty.String)
	if len(envMap) > 0 {
		val = cty.MapVal(envMap)
	}
	if err := e.Into.Set(val); err != nil {
		return status.Failure
	}
	return status.Success
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("env_vars", func(_ registry.Env, def *config.TaskDef) (task.Action, error) {
		a := &EnvVars{}
		return a, registry.Decode(def.Args, a)
	})
}
