package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// metrics are the app's Prometheus collectors, kept on a private registry
// so that several apps can live in one process.
type metrics struct {
	registry *prometheus.Registry
	ticks    *prometheus.CounterVec
	finished *prometheus.CounterVec
	running  prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickgraph_ticks_total",
			Help: "Graph ticks by graph and resulting status.",
		}, []string{"graph", "status"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickgraph_graphs_finished_total",
			Help: "Graph runs that stopped, by graph and outcome.",
		}, []string{"graph", "outcome"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tickgraph_graphs_running",
			Help: "Graphs currently running across all sessions.",
		}),
	}
	m.registry.MustRegister(m.ticks, m.finished, m.running)
	return m
}

// observeTick is a graph.TickObserver.
func (m *metrics) observeTick(g *graph.Graph, st status.Status) {
	m.ticks.WithLabelValues(g.Name(), st.String()).Inc()
}

func (m *metrics) observeFinish(name string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.finished.WithLabelValues(name, outcome).Inc()
	m.running.Dec()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
