package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

func (g *Graph) IsRunning() bool { return g.running }

func (g *Graph) IsPaused() bool { return g.paused }

// Elapsed is the time accumulated by Update since the last start.
func (g *Graph) Elapsed() time.Duration { return g.elapsed }

// Ticks is the number of ticks since the last start.
func (g *Graph) Ticks() uint64 { return g.ticks }

func (g *Graph) Agent() any { return g.agent }

func (g *Graph) Blackboard() *blackboard.Blackboard { return g.bb }

// Context is the context the graph was started with.
func (g *Graph) Context() context.Context { return g.ctx }

func (g *Graph) Logger() *slog.Logger { return g.logger }

// Start binds every node and connection to bb and begins running. Starting
// a running graph only logs a warning. A binding failure stops the graph
// immediately and is returned; onFinish then fires with false.
func (g *Graph) Start(ctx context.Context, agent any, bb *blackboard.Blackboard, onFinish func(success bool)) error {
	logger := ctxlog.FromContext(ctx)
	if g.running {
		logger.Warn("Graph is already running.", "graph", g.name)
		return nil
	}
	if g.node(g.prime) == nil {
		return fmt.Errorf("graph %q: %w", g.name, ErrNoPrime)
	}
	if g.paused {
		g.Stop(false)
	}

	g.ctx = ctx
	g.logger = logger
	g.agent = agent
	g.bb = bb
	g.onFinish = onFinish
	g.elapsed = 0
	g.ticks = 0
	g.UpdateNodeIDs()
	g.running = true

	if err := g.initAll(bb); err != nil {
		g.logger.Error("Graph refused to start, stopping.", "graph", g.name, "error", err)
		g.Stop(false)
		return fmt.Errorf("graph %q: %w", g.name, err)
	}

	g.logger.Debug("Graph started.", "graph", g.name, "nodes", len(g.order))
	for _, n := range g.Nodes() {
		if s, ok := n.Node().(GraphStarter); ok {
			s.OnGraphStarted(n)
		}
	}
	if g.flow != nil {
		g.flow.OnGraphStarted(g)
	}
	return nil
}

func (g *Graph) initAll(bb *blackboard.Blackboard) error {
	var errs []error
	for _, n := range g.NodesByID() {
		if err := task.Init(n.Node(), bb); err != nil {
			errs = append(errs, fmt.Errorf("node %s: %w", n, err))
		}
	}
	for _, c := range g.conns {
		if c == nil {
			continue
		}
		if err := task.Init(c.conn, bb); err != nil {
			errs = append(errs, fmt.Errorf("connection %s -> %s: %w", g.Ref(c.source), g.Ref(c.target), err))
		}
	}
	return errors.Join(errs...)
}

// Stop resets every node and fires the finish callback. It is a no-op on a
// graph that is neither running nor paused.
func (g *Graph) Stop(success bool) {
	if !g.running && !g.paused {
		return
	}
	g.running = false
	g.paused = false
	g.stopGen++

	for _, h := range slices.Clone(g.order) {
		g.resetNode(h, true)
	}
	for _, n := range g.Nodes() {
		if s, ok := n.Node().(GraphStopper); ok {
			s.OnGraphStopped(n)
		}
	}
	if g.flow != nil {
		g.flow.OnGraphStopped(g)
	}

	g.logger.Debug("Graph stopped.", "graph", g.name, "success", success, "elapsed", g.elapsed, "ticks", g.ticks)
	g.recordFinish(success)
	if cb := g.onFinish; cb != nil {
		g.onFinish = nil
		cb(success)
	}
}

// Pause suspends ticking without resetting any node.
func (g *Graph) Pause() {
	if !g.running {
		return
	}
	g.running = false
	g.paused = true
	for _, n := range g.Nodes() {
		if p, ok := n.Node().(GraphPauser); ok {
			p.OnGraphPaused(n)
		}
	}
	g.logger.Debug("Graph paused.", "graph", g.name)
}

// Resume continues a paused graph.
func (g *Graph) Resume() {
	if !g.paused {
		return
	}
	g.paused = false
	g.running = true
	for _, n := range g.Nodes() {
		if p, ok := n.Node().(GraphPauser); ok {
			p.OnGraphResumed(n)
		}
	}
	g.logger.Debug("Graph resumed.", "graph", g.name)
}

// Update advances the elapsed time by dt and ticks once.
func (g *Graph) Update(dt time.Duration) status.Status {
	if !g.running {
		return status.Resting
	}
	g.elapsed += dt
	return g.Tick()
}

// Tick runs one step of the flow. A graph that is not running returns Resting.
func (g *Graph) Tick() status.Status {
	if !g.running {
		return status.Resting
	}
	g.ticks++

	_, span := tracer.Start(g.ctx, "graph.Tick", trace.WithAttributes(
		attribute.String("graph.name", g.name),
		attribute.Int64("graph.tick", int64(g.ticks)),
	))
	defer span.End()

	var st status.Status
	if g.flow != nil {
		st = g.flow.Tick(g)
	} else {
		st = g.Prime().Execute(g.agent, g.bb)
		if st.Finished() {
			g.Stop(st == status.Success)
		}
	}

	span.SetAttributes(attribute.String("graph.status", st.String()))
	if st == status.Error {
		span.SetStatus(codes.Error, "graph tick produced an error status")
	}
	g.recordTick(st)
	for _, fn := range g.observers {
		fn(g, st)
	}
	return st
}
