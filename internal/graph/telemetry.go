package graph

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/status"
)

var (
	tracer = otel.Tracer("tickgraph.graph")
	meter  = otel.Meter("tickgraph.graph")
)

type instruments struct {
	ticks    metric.Int64Counter
	finished metric.Int64Counter
}

var (
	instrumentsOnce sync.Once
	graphMetrics    instruments
)

// metrics lazily creates the graph instruments. A failure degrades to
// no metrics rather than failing the tick.
func metrics(ctx context.Context) *instruments {
	instrumentsOnce.Do(func() {
		var err error
		graphMetrics.ticks, err = meter.Int64Counter("tickgraph_graph_ticks_total",
			metric.WithDescription("Number of graph ticks by resulting status"),
		)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Failed to create tick counter.", "error", err)
		}
		graphMetrics.finished, err = meter.Int64Counter("tickgraph_graph_finished_total",
			metric.WithDescription("Number of graph runs that stopped, by outcome"),
		)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Failed to create finish counter.", "error", err)
		}
	})
	return &graphMetrics
}

func (g *Graph) recordTick(st status.Status) {
	m := metrics(g.ctx)
	if m.ticks != nil {
		m.ticks.Add(g.ctx, 1, metric.WithAttributes(
			attribute.String("graph", g.name),
			attribute.String("status", st.String()),
		))
	}
}

func (g *Graph) recordFinish(success bool) {
	m := metrics(g.ctx)
	if m.finished != nil {
		m.finished.Add(g.ctx, 1, metric.WithAttributes(
			attribute.String("graph", g.name),
			attribute.Bool("success", success),
		))
	}
}
