package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bracket_board"

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	tournamentsCreated prometheus.Counter
	mutations          *prometheus.CounterVec
	bracketSize        prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tournamentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_created_total",
			Help:      "Number of tournaments created.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_mutations_total",
			Help:      "Bracket mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		bracketSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bracket_entrants",
			Help:      "Entrant count of created brackets.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 8),
		}),
	}
	reg.MustRegister(m.tournamentsCreated, m.mutations, m.bracketSize)
	return m
}

const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

func (m *Metrics) TournamentCreated(entrants int) {
	if m == nil {
		return
	}
	m.tournamentsCreated.Inc()
	m.bracketSize.Observe(float64(entrants))
}

func (m *Metrics) Mutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}
