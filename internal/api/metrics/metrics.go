// Package metrics defines the custom Prometheus metrics of the TARS client
// server. It is the single source of truth for metric names, labels, and
// help strings.
//
// Build one Metrics per registry with New; tests pass a fresh
// prometheus.NewRegistry() so repeated construction never collides.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tars_client"

type Metrics struct {
	// ── Upstream metrics ──────────────────────────────────────────────────────

	// UpstreamRequestsTotal counts calls to the backend.
	// Labels:
	//   - operation: e.g. "get user preferences"
	//   - outcome: "success", "upstream_error", "transport_error", "decode_error"
	UpstreamRequestsTotal *prometheus.CounterVec

	// UpstreamRequestDuration measures backend round trips.
	// Label:
	//   - operation
	UpstreamRequestDuration *prometheus.HistogramVec

	// ── Domain metrics ────────────────────────────────────────────────────────

	// PreferenceFallbacksTotal counts empty preference records served in
	// place of a missing one.
	// Label:
	//   - source: "user" or "client"
	PreferenceFallbacksTotal *prometheus.CounterVec

	// ClientIDsCreatedTotal counts clients registered for this installation.
	ClientIDsCreatedTotal prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of backend calls, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		UpstreamRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of backend calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PreferenceFallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "preference_fallbacks_total",
				Help:      "Total number of empty preference records served for missing ones.",
			},
			[]string{"source"},
		),
		ClientIDsCreatedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "client_ids_created_total",
				Help:      "Total number of clients registered with the backend by this server.",
			},
		),
	}
}

// ObserveCall records one backend call.
func (m *Metrics) ObserveCall(op, outcome string, elapsed time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) PreferenceFallback(source string) {
	m.PreferenceFallbacksTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ClientIDCreated() {
	m.ClientIDsCreatedTotal.Inc()
}
