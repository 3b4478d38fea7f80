package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo historial de movimientos; solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, item_id, warehouse_id, type, quantity, notes, transfer_id, created_by, created_at`

func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ItemID, tx.WarehouseID, string(tx.Type), tx.Quantity, tx.Notes,
		nullable(tx.TransferID), nullable(tx.CreatedBy), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	tx, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// List devuelve las transacciones más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	var w where
	if f.ItemID != "" {
		w.add("item_id = ?", f.ItemID)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.Type != "" {
		w.add("type = ?", string(f.Type))
	}
	if f.TransferID != "" {
		w.add("transfer_id = ?", f.TransferID)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.clause() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var (
		tx                 entity.Transaction
		typ                string
		transferID, author *string
	)
	err := row.Scan(&tx.ID, &tx.ItemID, &tx.WarehouseID, &typ, &tx.Quantity, &tx.Notes,
		&transferID, &author, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.Type = entity.TransactionType(typ)
	tx.TransferID = deref(transferID)
	tx.CreatedBy = deref(author)
	return &tx, nil
}
