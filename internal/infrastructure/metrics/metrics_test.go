package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.MutationApplied(entity.TransactionIN)
	r.MutationApplied(entity.TransactionIN)
	r.MutationApplied(entity.TransactionADJUST)
	r.MutationRejected(inventory.RejectInsufficientStock)
	r.TransferTransition(entity.TransferCompleted)
	r.PartialCompletion()
	r.LedgerInconsistency()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.mutations.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mutations.WithLabelValues("ADJUST")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.partials))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inconsistencies))

	expected := `
# HELP warehouse_transfer_partial_completions_total Transferencias con salida aplicada y entrada fallida.
# TYPE warehouse_transfer_partial_completions_total counter
warehouse_transfer_partial_completions_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "warehouse_transfer_partial_completions_total"))
}
