package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMutationCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Mutation("select_winner", OutcomeApplied)
	m.Mutation("select_winner", OutcomeApplied)
	m.Mutation("apply_results", OutcomeSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("select_winner", OutcomeApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("apply_results", OutcomeSkipped)))
}

func TestTournamentCreated(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TournamentCreated(8)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tournamentsCreated))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.TournamentCreated(4)
		m.Mutation("edit_date", OutcomeFailed)
	})
}
