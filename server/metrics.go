package server

import (
	"time"

	"github.com/TFMV/forcegraph/editor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry *prometheus.Registry

	tickSeconds prometheus.Histogram
	ticks       prometheus.Counter
	nodes       prometheus.Gauge
	vertices    prometheus.Gauge
	energy      prometheus.Gauge
	commands    prometheus.Counter
	streams     prometheus.Gauge

	lastTicks int
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		tickSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "forcegraph_tick_duration_seconds",
			Help:    "Time spent advancing the editor by one tick",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "forcegraph_layout_ticks_total",
			Help: "Force layout ticks run",
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_nodes",
			Help: "Nodes in the edited graph",
		}),
		vertices: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_vertices",
			Help: "Vertices in the edited graph, both halves of an undirected edge counted",
		}),
		energy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_kinetic_energy",
			Help: "Kinetic energy of the layout after the last tick",
		}),
		commands: factory.NewCounter(prometheus.CounterOpts{
			Name: "forcegraph_commands_total",
			Help: "Commands executed on the simulation goroutine",
		}),
		streams: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_streams",
			Help: "Open websocket streams",
		}),
	}
}

// observe records one tick
func (m *metrics) observe(ed *editor.Editor, took time.Duration) {
	m.tickSeconds.Observe(took.Seconds())
	m.nodes.Set(float64(ed.Graph().Len()))
	m.vertices.Set(float64(ed.Graph().VertexCount()))
	m.energy.Set(ed.Layout().Energy())

	ticks := ed.Layout().Ticks()
	if ticks > m.lastTicks {
		m.ticks.Add(float64(ticks - m.lastTicks))
	}
	m.lastTicks = ticks
}
