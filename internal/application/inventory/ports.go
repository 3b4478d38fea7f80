package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// UnitOfWork ejecuta fn con repositorios de stock y transacciones atados a la misma unidad de trabajo.
// Atomic indica si un error dentro de fn deshace las escrituras ya hechas (tx SQL).
// Sin atomicidad, una falla al registrar la transacción después de escribir el stock
// se reporta como inconsistencia del libro.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(
		levels repository.StockLevelRepository,
		txs repository.TransactionRepository,
	) error) error
	Atomic() bool
}

// Observer recibe eventos del libro para métricas.
type Observer interface {
	MutationApplied(t entity.TransactionType)
	MutationRejected(reason string)
	LedgerInconsistency()
}

type nopObserver struct{}

func (nopObserver) MutationApplied(entity.TransactionType) {}
func (nopObserver) MutationRejected(string)                {}
func (nopObserver) LedgerInconsistency()                   {}
