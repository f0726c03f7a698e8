package app

import (
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/modules/env_vars"
	"github.com/specialistvlad/tickgraph/modules/expr"
	"github.com/specialistvlad/tickgraph/modules/http_request"
	"github.com/specialistvlad/tickgraph/modules/nodes"
	"github.com/specialistvlad/tickgraph/modules/print"
	"github.com/specialistvlad/tickgraph/modules/socketio"
	"github.com/specialistvlad/tickgraph/modules/upload"
	"github.com/specialistvlad/tickgraph/modules/vars"
	"github.com/specialistvlad/tickgraph/modules/wait"
)

// CoreModules is the definitive list of all modules that are compiled into
// the tickgraph binary.
func CoreModules() []registry.Module {
	return []registry.Module{
		&nodes.Module{},
		&vars.Module{},
		&expr.Module{},
		&wait.Module{},
		&print.Module{},
		&env_vars.Module{},
		&http_request.Module{},
		&socketio.Module{},
		&upload.Module{},
	}
}
