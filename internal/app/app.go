package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/specialistvlad/tickgraph/internal/builder"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/session"
	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	registry *registry.Registry
	model    *config.Model

	snapshots  snapshotstore.Store
	metrics    *metrics
	httpServer *http.Server
}

// NewApp loads the definition files and registers the modules. With no
// modules given, CoreModules are used. The definitions are built once in a
// scratch session so that configuration errors surface here rather than
// mid-run.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"blackboards", len(model.Blackboards), "trees", len(model.Trees), "fsms", len(model.Machines))

	if len(modules) == 0 {
		modules = CoreModules()
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	a := &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		registry: reg,
		model:    model,
		metrics:  newMetrics(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Definitions validated.")

	a.snapshots, err = openSnapshots(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded definitions.
func (a *App) Model() *config.Model {
	return a.model
}

// Validate builds every selected graph in a throwaway session.
func (a *App) Validate() error {
	b := builder.New(a.registry, a.model, session.New(session.WithLogger(a.logger)), graph.WithLogger(a.logger))
	if err := b.SharedBlackboards(); err != nil {
		return err
	}
	names, err := a.graphNames(b)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := b.Instance(name); err != nil {
			return err
		}
	}
	return nil
}

// NodeIDs returns, per graph, the node names in depth-first ID order.
func (a *App) NodeIDs() (map[string][]string, error) {
	b := builder.New(a.registry, a.model, session.New(session.WithLogger(a.logger)), graph.WithLogger(a.logger))
	names, err := a.graphNames(b)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(names))
	for _, name := range names {
		inst, err := b.Instance(name)
		if err != nil {
			return nil, err
		}
		inst.Graph.UpdateNodeIDs()
		for _, n := range inst.Graph.NodesByID() {
			out[name] = append(out[name], n.Name())
		}
	}
	return out, nil
}

// graphNames returns the configured graph selection, or every graph.
func (a *App) graphNames(b *builder.Builder) ([]string, error) {
	all := b.GraphNames()
	if len(a.cfg.Graphs) == 0 {
		return all, nil
	}
	for _, name := range a.cfg.Graphs {
		if !slices.Contains(all, name) {
			return nil, fmt.Errorf("%w: %q", builder.ErrUnknownGraph, name)
		}
	}
	return a.cfg.Graphs, nil
}

// Close releases the snapshot backend.
func (a *App) Close() error {
	if a.snapshots == nil {
		return nil
	}
	return a.snapshots.Close()
}
