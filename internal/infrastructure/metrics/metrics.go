// Package metrics expone contadores Prometheus del libro de stock y de las transferencias.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

const namespace = "warehouse"

var (
	_ inventory.Observer = (*Recorder)(nil)
	_ transfer.Observer  = (*Recorder)(nil)
)

// Recorder implementa los observers de inventario y transferencias sobre contadores Prometheus.
// Los contadores de completado parcial e inconsistencia del libro son la señal para conciliación manual.
type Recorder struct {
	mutations       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	partials        prometheus.Counter
	inconsistencies prometheus.Counter
}

// NewRecorder crea los contadores y los registra en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_mutations_total",
			Help:      "Mutaciones de stock aplicadas por tipo.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_mutation_rejections_total",
			Help:      "Mutaciones de stock rechazadas por motivo.",
		}, []string{"reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_transitions_total",
			Help:      "Transiciones de transferencias por estado destino.",
		}, []string{"to"}),
		partials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_partial_completions_total",
			Help:      "Transferencias con salida aplicada y entrada fallida.",
		}),
		inconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_inconsistencies_total",
			Help:      "Niveles de stock escritos sin transacción de auditoría.",
		}),
	}
	reg.MustRegister(r.mutations, r.rejections, r.transitions, r.partials, r.inconsistencies)
	return r
}

func (r *Recorder) MutationApplied(t entity.TransactionType) {
	r.mutations.WithLabelValues(string(t)).Inc()
}

func (r *Recorder) MutationRejected(reason string) {
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) LedgerInconsistency() { r.inconsistencies.Inc() }

func (r *Recorder) TransferTransition(to entity.TransferStatus) {
	r.transitions.WithLabelValues(string(to)).Inc()
}

func (r *Recorder) PartialCompletion() { r.partials.Inc() }
