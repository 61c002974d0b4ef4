package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOperation("create", OutcomeOK)
	m.ObserveOperation("create", OutcomeOK)
	m.ObserveOperation("create", OutcomeInvalid)
	m.ObserveSave(OutcomeError)
	m.ObserveLoad(OutcomeMissing)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotSaves.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotLoads.WithLabelValues(OutcomeMissing)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"kanban_board_operations_total",
		"kanban_snapshot_saves_total",
		"kanban_snapshot_loads_total",
	}, names)
}

func TestMetricsUnregistered(t *testing.T) {
	// Two sets against no registry must not collide.
	a := New(nil)
	b := New(nil)
	a.ObserveSave(OutcomeOK)
	b.ObserveSave(OutcomeOK)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.SnapshotSaves.WithLabelValues(OutcomeOK)))
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("move", OutcomeOK)
		m.ObserveSave(OutcomeOK)
		m.ObserveLoad(OutcomeOK)
	})
}
