// Package metrics exposes prometheus collectors for the world core.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samdwyer/cellcrawl/internal/logging"
)

const namespace = "cellcrawl"

// Metrics holds the collectors updated by the level and the assembler.
type Metrics struct {
	cellSwitches    prometheus.Counter
	lightRecomputes prometheus.Counter
	lightDuration   prometheus.Histogram
	blockedTiles    prometheus.Gauge
	graphCells      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cellSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_switches_total",
			Help:      "Number of active cell transitions.",
		}),
		lightRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "light_recomputes_total",
			Help:      "Number of light field recomputations.",
		}),
		lightDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "light_recompute_seconds",
			Help:      "Time spent recomputing the light field.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
		blockedTiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blocked_tiles",
			Help:      "Blocked bytes in the occupancy grid after the last update.",
		}),
		graphCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_cells",
			Help:      "Cells in the most recently assembled level graph.",
		}),
	}

	reg.MustRegister(m.cellSwitches, m.lightRecomputes, m.lightDuration, m.blockedTiles, m.graphCells)
	return m
}

// CellSwitched counts one active cell transition.
func (m *Metrics) CellSwitched() {
	if m == nil {
		return
	}
	m.cellSwitches.Inc()
}

// LightRecomputed records one light recompute of duration d.
func (m *Metrics) LightRecomputed(d time.Duration) {
	if m == nil {
		return
	}
	m.lightRecomputes.Inc()
	m.lightDuration.Observe(d.Seconds())
}

// SetBlockedTiles records the number of blocked occupancy bytes.
func (m *Metrics) SetBlockedTiles(n int) {
	if m == nil {
		return
	}
	m.blockedTiles.Set(float64(n))
}

// SetGraphCells records the size of the assembled graph.
func (m *Metrics) SetGraphCells(n int) {
	if m == nil {
		return
	}
	m.graphCells.Set(float64(n))
}

// Serve starts a /metrics endpoint on addr in its own goroutine.
func Serve(addr string, gatherer prometheus.Gatherer) {
	log := logging.For("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	go func() {
		log.WithField("addr", addr).Info("metrics endpoint listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("metrics endpoint stopped")
		}
	}()
}
