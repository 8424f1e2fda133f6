// Package metrics exposes journal activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beanstalk"

// Metrics holds every collector the journal reports to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DeedsTotal          *prometheus.CounterVec
	PointsTotal         prometheus.Counter
	RejectedTotal       *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	StreakCurrent       prometheus.Gauge
	LedgerPoints        prometheus.Gauge
	LedgerEntries       prometheus.Gauge
	ExpiryRuns          prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		DeedsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "deeds_total",
			Help:      "Total deeds recorded, by category.",
		}, []string{"category"}),

		PointsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "points_awarded_total",
			Help:      "Total points awarded since process start.",
		}),

		RejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "rejected_total",
			Help:      "Total submissions rejected, by reason.",
		}, []string{"reason"}),

		PersistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Total failed gateway operations, by operation.",
		}, []string{"op"}),

		StreakCurrent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "streak",
			Name:      "current",
			Help:      "Current daily logging streak.",
		}),

		LedgerPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points",
			Help:      "Total points currently held in the ledger.",
		}),

		LedgerEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries",
			Help:      "Number of entries currently held in the ledger.",
		}),

		ExpiryRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "streak",
			Name:      "expiry_runs_total",
			Help:      "Total streak expiry checks run by the scheduler.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Deed records one accepted submission.
func (m *Metrics) Deed(category string, points int) {
	if m == nil {
		return
	}
	m.DeedsTotal.WithLabelValues(category).Inc()
	m.PointsTotal.Add(float64(points))
}

// Rejected records a refused submission.
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(reason).Inc()
}

// PersistenceFailed records a failed gateway call.
func (m *Metrics) PersistenceFailed(op string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(op).Inc()
}

// State publishes the current journal state.
func (m *Metrics) State(streak, points, entries int) {
	if m == nil {
		return
	}
	m.StreakCurrent.Set(float64(streak))
	m.LedgerPoints.Set(float64(points))
	m.LedgerEntries.Set(float64(entries))
}

// Expired records one scheduler pass.
func (m *Metrics) Expired() {
	if m == nil {
		return
	}
	m.ExpiryRuns.Inc()
}
