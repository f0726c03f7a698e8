package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/specialistvlad/tickgraph/internal/builder"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/session"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// GraphReport is the outcome of one graph instance.
type GraphReport struct {
	Name string
	// Status is the last tick's result.
	Status status.Status
	// Finished is set when the graph stopped on its own.
	Finished bool
	Success  bool
	Ticks    uint64
}

// SessionReport is the outcome of one session.
type SessionReport struct {
	Agent  string
	Ticks  uint64
	Graphs []GraphReport
}

// Run starts the health server when configured and runs every session until
// all graphs have finished, MaxTicks is reached or ctx is cancelled.
// Cancellation is a normal way to stop and is not reported as an error.
func (a *App) Run(ctx context.Context) ([]SessionReport, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.HealthcheckPort > 0 {
		if _, err := a.startHealthcheckServer(a.cfg.HealthcheckPort); err != nil {
			return nil, err
		}
		defer a.closeHealthcheckServer()
	}

	reports := make([]SessionReport, a.cfg.Sessions)
	g, gctx := errgroup.WithContext(ctx)
	a.logger.Info("🚀 Starting sessions...", "sessions", a.cfg.Sessions, "tick_rate", a.cfg.TickRate)
	for i := range a.cfg.Sessions {
		g.Go(func() error {
			rep, err := a.runSession(gctx, i)
			reports[i] = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	a.logger.Info("🏁 Execution finished.")
	return reports, nil
}

// running tracks one started graph instance.
type running struct {
	inst     *builder.Instance
	finished bool
	success  bool
	last     status.Status
}

func (a *App) runSession(ctx context.Context, index int) (SessionReport, error) {
	agent := fmt.Sprintf("agent-%d", index)
	opts := []session.Option{session.WithLogger(a.logger.With("agent", agent))}
	if a.cfg.Seed != 0 {
		opts = append(opts, session.WithSeed(a.cfg.Seed+uint64(index)))
	}
	sess := session.New(opts...)
	logger := sess.Logger
	ctx = ctxlog.WithLogger(ctx, logger)
	report := SessionReport{Agent: agent}

	b := builder.New(a.registry, a.model, sess,
		graph.WithLogger(logger),
		graph.WithTickObserver(a.metrics.observeTick),
	)
	if err := b.SharedBlackboards(); err != nil {
		return report, err
	}
	if err := a.restoreShared(ctx, sess, agent); err != nil {
		return report, err
	}

	names, err := a.graphNames(b)
	if err != nil {
		return report, err
	}
	graphs := make([]*running, 0, len(names))
	for _, name := range names {
		inst, err := b.Instance(name)
		if err != nil {
			return report, err
		}
		if !inst.Blackboard.Shared() {
			if err := a.restore(ctx, snapshotKey(agent, name), inst.Blackboard); err != nil {
				return report, err
			}
		}
		r := &running{inst: inst}
		onFinish := func(success bool) {
			r.finished, r.success = true, success
			a.metrics.observeFinish(inst.Name, success)
		}
		a.metrics.running.Inc()
		if err := inst.Graph.Start(ctx, agent, inst.Blackboard, onFinish); err != nil {
			for _, started := range graphs {
				started.inst.Graph.Stop(false)
			}
			return report, fmt.Errorf("%s: %w", agent, err)
		}
		graphs = append(graphs, r)
	}

	report.Ticks = a.loop(ctx, logger, graphs)

	for _, r := range graphs {
		if r.inst.Graph.IsRunning() || r.inst.Graph.IsPaused() {
			r.inst.Graph.Stop(false)
			r.finished = false
		}
		report.Graphs = append(report.Graphs, GraphReport{
			Name:     r.inst.Name,
			Status:   r.last,
			Finished: r.finished,
			Success:  r.success,
			Ticks:    r.inst.Graph.Ticks(),
		})
	}

	// Snapshots are written even after cancellation, so they get a fresh
	// context.
	saveCtx := ctxlog.WithLogger(context.WithoutCancel(ctx), logger)
	var errs []error
	for _, r := range graphs {
		if !r.inst.Blackboard.Shared() {
			errs = append(errs, a.save(saveCtx, snapshotKey(agent, r.inst.Name), r.inst.Blackboard))
		}
	}
	errs = append(errs, a.saveShared(saveCtx, sess, agent))
	return report, errors.Join(errs...)
}

// loop ticks every running graph at the configured rate and returns the
// number of ticks performed.
func (a *App) loop(ctx context.Context, logger *slog.Logger, graphs []*running) uint64 {
	limiter := rate.NewLimiter(rate.Limit(a.cfg.TickRate), 1)
	last := time.Now()
	var ticks uint64
	for {
		if a.cfg.MaxTicks > 0 && ticks >= a.cfg.MaxTicks {
			logger.Debug("Tick budget reached.", "ticks", ticks)
			return ticks
		}
		if err := limiter.Wait(ctx); err != nil {
			logger.Debug("Session cancelled.", "ticks", ticks, "reason", err)
			return ticks
		}

		now := time.Now()
		dt := now.Sub(last)
		last = now

		active := 0
		for _, r := range graphs {
			if !r.inst.Graph.IsRunning() {
				continue
			}
			r.last = r.inst.Graph.Update(dt)
			if r.inst.Graph.IsRunning() {
				active++
			}
		}
		ticks++
		if active == 0 {
			logger.Debug("All graphs finished.", "ticks", ticks)
			return ticks
		}
	}
}

func snapshotKey(agent, name string) string {
	return agent + "/" + name
}

func sharedKey(agent, store string) string {
	return agent + "/shared/" + store
}

func (a *App) restoreShared(ctx context.Context, sess *session.Session, agent string) error {
	for _, name := range sess.Blackboards.Names() {
		bb, _ := sess.Blackboards.Lookup(name)
		if err := a.restore(ctx, sharedKey(agent, name), bb); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) saveShared(ctx context.Context, sess *session.Session, agent string) error {
	var errs []error
	for _, name := range sess.Blackboards.Names() {
		bb, _ := sess.Blackboards.Lookup(name)
		errs = append(errs, a.save(ctx, sharedKey(agent, name), bb))
	}
	return errors.Join(errs...)
}
