package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var (
	_ inventory.UnitOfWork = (*TxRunner)(nil)
	_ inventory.UnitOfWork = (*DirectRunner)(nil)
)

// TxRunner ejecuta cada mutación del libro dentro de una transacción PostgreSQL:
// el nivel de stock y su transacción se confirman o se descartan juntos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	txs repository.TransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockLevelRepository(tx), NewTransactionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TxRunner) Atomic() bool { return true }

// DirectRunner escribe directo sobre el pool, sin transacción envolvente.
// Igual que contra la API REST del BaaS: cada escritura es independiente.
type DirectRunner struct {
	levels *StockLevelRepo
	txs    *TransactionRepo
}

func NewDirectRunner(pool *pgxpool.Pool) *DirectRunner {
	return &DirectRunner{levels: NewStockLevelRepository(pool), txs: NewTransactionRepository(pool)}
}

func (r *DirectRunner) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	txs repository.TransactionRepository,
) error) error {
	return fn(r.levels, r.txs)
}

func (r *DirectRunner) Atomic() bool { return false }
