// Package metrics holds the prometheus counters for board operations and
// snapshot persistence.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeMissing  = "missing"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the board.
type Metrics struct {
	Operations    *prometheus.CounterVec
	SnapshotSaves *prometheus.CounterVec
	SnapshotLoads *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg creates
// unregistered collectors, which is what tests and one-shot CLI runs want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanban_board_operations_total",
			Help: "Board mutations by operation and outcome",
		}, []string{"op", "outcome"}),
		SnapshotSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanban_snapshot_saves_total",
			Help: "Snapshot writes to the key-value store by outcome",
		}, []string{"outcome"}),
		SnapshotLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanban_snapshot_loads_total",
			Help: "Snapshot reads from the key-value store by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveOperation counts one board operation. Safe on a nil receiver.
func (m *Metrics) ObserveOperation(op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
}

// ObserveSave counts one snapshot write. Safe on a nil receiver.
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.SnapshotSaves.WithLabelValues(outcome).Inc()
}

// ObserveLoad counts one snapshot read. Safe on a nil receiver.
func (m *Metrics) ObserveLoad(outcome string) {
	if m == nil {
		return
	}
	m.SnapshotLoads.WithLabelValues(outcome).Inc()
}
