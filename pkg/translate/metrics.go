package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records translation attempts and runs.
type Metrics struct {
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	runsTotal       *prometheus.CounterVec
}

// NewMetrics registers the translation metrics on reg.
// A nil reg creates collectors that are not registered anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossia_translation_attempts_total",
				Help: "Total number of translator subprocess invocations",
			},
			[]string{"status"},
		),
		attemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glossia_translation_attempt_duration_seconds",
				Help:    "Duration of translator subprocess invocations in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossia_translation_runs_total",
				Help: "Total number of translate runs, after retries",
			},
			[]string{"status"},
		),
	}
}

// RecordAttempt records one subprocess invocation.
// status is "success", "failure" or "launch_error".
func (m *Metrics) RecordAttempt(status string, duration time.Duration) {
	m.attemptsTotal.WithLabelValues(status).Inc()
	m.attemptDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordRun records the final outcome of a Translate call.
func (m *Metrics) RecordRun(outcome Outcome) {
	m.runsTotal.WithLabelValues(outcome.String()).Inc()
}
