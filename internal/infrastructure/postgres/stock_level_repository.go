package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo niveles de stock por par ítem/bodega (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `id, item_id, warehouse_id, quantity, updated_at`

// GetByPair devuelve (nil, nil) si el par no tiene fila.
func (r *StockLevelRepo) GetByPair(ctx context.Context, itemID, warehouseID string) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels WHERE item_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, query, itemID, warehouseID)
}

func (r *StockLevelRepo) GetByID(ctx context.Context, id string) (*entity.StockLevel, error) {
	return r.getOne(ctx, `SELECT `+stockLevelColumns+` FROM stock_levels WHERE id = $1`, id)
}

func (r *StockLevelRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockLevel, error) {
	var l entity.StockLevel
	err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID, &l.ItemID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}

func (r *StockLevelRepo) List(ctx context.Context, f repository.StockLevelFilter) ([]*entity.StockLevel, error) {
	var w where
	if f.ItemID != "" {
		w.add("item_id = ?", f.ItemID)
	}
	if f.WarehouseID != "" {
		w.add("warehouse_id = ?", f.WarehouseID)
	}
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels` + w.clause() + ` ORDER BY warehouse_id, item_id`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ID, &l.ItemID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// CompareAndSet escritura condicional: UPDATE ... WHERE quantity = expected, o
// INSERT ... ON CONFLICT DO NOTHING cuando el par todavía no tiene fila.
// Cero filas afectadas significa que otro escritor ganó la carrera.
func (r *StockLevelRepo) CompareAndSet(ctx context.Context, l *entity.StockLevel, expected *int64) (bool, error) {
	if l.Quantity < 0 {
		return false, domain.Invalid("quantity", "no puede ser negativa")
	}
	if expected == nil {
		query := `
			INSERT INTO stock_levels (` + stockLevelColumns + `)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (item_id, warehouse_id) DO NOTHING`
		tag, err := r.q.Exec(ctx, query, l.ID, l.ItemID, l.WarehouseID, l.Quantity, l.UpdatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, domain.ErrNotFound
			}
			return false, fmt.Errorf("insert stock level: %w", err)
		}
		return tag.RowsAffected() == 1, nil
	}

	query := `UPDATE stock_levels SET quantity = $2, updated_at = $3 WHERE id = $1 AND quantity = $4`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Quantity, l.UpdatedAt, *expected)
	if err != nil {
		return false, fmt.Errorf("update stock level: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
