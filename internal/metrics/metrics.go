// Package metrics exposes pipeline counters for the run loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so one-shot CLI paths skip registration.
type Metrics struct {
	registry *prometheus.Registry

	sourcesProcessed prometheus.Counter
	verdicts         *prometheus.CounterVec
	duplicatesReused prometheus.Counter
	noClaim          prometheus.Counter
	agentFailures    prometheus.Counter
	reviewRouted     *prometheus.CounterVec
}

// New creates and registers the pipeline collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourcesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "veredicto_sources_processed_total",
			Help: "Sources pulled from the queue and run through the pipeline.",
		}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veredicto_verdicts_total",
			Help: "Claims persisted, by verdict status.",
		}, []string{"status"}),
		duplicatesReused: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "veredicto_duplicates_reused_total",
			Help: "Sources linked to an existing claim instead of re-verified.",
		}),
		noClaim: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "veredicto_no_claim_total",
			Help: "Sources skipped because no checkable claim was extracted.",
		}),
		agentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "veredicto_agent_failures_total",
			Help: "Agent runs that errored or timed out and contributed no finding.",
		}),
		reviewRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veredicto_review_routed_total",
			Help: "Claims routed to the human review queue, by priority.",
		}, []string{"priority"}),
	}

	m.registry.MustRegister(m.sourcesProcessed, m.verdicts, m.duplicatesReused,
		m.noClaim, m.agentFailures, m.reviewRouted)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SourceProcessed counts one source through the pipeline.
func (m *Metrics) SourceProcessed() {
	if m != nil {
		m.sourcesProcessed.Inc()
	}
}

// Verdict counts one persisted claim by status.
func (m *Metrics) Verdict(status string) {
	if m != nil {
		m.verdicts.WithLabelValues(status).Inc()
	}
}

// DuplicateReused counts one verdict reuse.
func (m *Metrics) DuplicateReused() {
	if m != nil {
		m.duplicatesReused.Inc()
	}
}

// NoClaim counts one skipped source.
func (m *Metrics) NoClaim() {
	if m != nil {
		m.noClaim.Inc()
	}
}

// AgentFailures counts agents that contributed no finding.
func (m *Metrics) AgentFailures(n int) {
	if m != nil && n > 0 {
		m.agentFailures.Add(float64(n))
	}
}

// ReviewRouted counts one claim sent to the review queue.
func (m *Metrics) ReviewRouted(priority string) {
	if m != nil {
		m.reviewRouted.WithLabelValues(priority).Inc()
	}
}
