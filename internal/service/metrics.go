package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts intents by outcome: ok, validation, forbidden, not_found,
// domain or error.
type Metrics struct {
	intents  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers on reg. A nil reg keeps the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanban_intents_total",
				Help: "Board intents processed, by intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kanban_intent_duration_seconds",
				Help:    "Intent processing time including the transaction",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"intent"},
		),
	}
}

func (m *Metrics) observe(intent, outcome string, d time.Duration) {
	m.intents.WithLabelValues(intent, outcome).Inc()
	m.duration.WithLabelValues(intent).Observe(d.Seconds())
}
