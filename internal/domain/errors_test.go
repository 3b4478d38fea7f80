package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErroresEstructurados_IsSentinel(t *testing.T) {
	cause := errors.New("timeout")

	assert.ErrorIs(t, Invalid("quantity", "debe ser positiva"), ErrInvalidInput)
	assert.ErrorIs(t, &StockError{Available: 2, Requested: 6}, ErrInsufficientStock)
	assert.ErrorIs(t, &TransitionError{From: "APPROVED", To: "APPROVED"}, ErrInvalidTransition)
	assert.ErrorIs(t, Upstream("get", cause), ErrUpstream)

	partial := &PartialCompletionError{TransferID: "t1", OutTransactionID: "tx1", Cause: &StockError{}}
	assert.ErrorIs(t, partial, ErrPartialCompletion)
	assert.ErrorIs(t, partial, ErrInsufficientStock, "la causa sigue accesible")

	ledger := &LedgerInconsistencyError{Cause: cause}
	assert.ErrorIs(t, ledger, ErrLedgerInconsistency)
	assert.ErrorIs(t, ledger, cause)

	unaudited := &PartialCompletionError{TransferID: "t1", Cause: ledger}
	assert.ErrorIs(t, unaudited, ErrPartialCompletion)
	assert.ErrorIs(t, unaudited, ErrLedgerInconsistency)
	assert.Contains(t, unaudited.Error(), "sin transacción")
}

func TestUpstream_NoDobleEnvoltura(t *testing.T) {
	assert.Nil(t, Upstream("x", nil))

	first := Upstream("list", errors.New("boom"))
	wrapped := fmt.Errorf("contexto: %w", first)
	assert.Same(t, wrapped, Upstream("otra", wrapped))
}
