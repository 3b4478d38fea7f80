package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura.
type ReportRepo struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) CountActiveWarehouses(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM warehouses WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count warehouses: %w", err)
	}
	return n, nil
}

// ItemStockTotals suma el stock de cada ítem en todas las bodegas; sin filas cuenta como 0.
func (r *ReportRepo) ItemStockTotals(ctx context.Context) ([]repository.ItemStockTotal, error) {
	query := `
		SELECT i.id, i.sku, i.name, i.reorder_level, i.unit_price, i.is_active,
			COALESCE(SUM(s.quantity), 0)::bigint
		FROM items i
		LEFT JOIN stock_levels s ON s.item_id = i.id
		GROUP BY i.id
		ORDER BY i.sku`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("item stock totals: %w", err)
	}
	defer rows.Close()

	var out []repository.ItemStockTotal
	for rows.Next() {
		var t repository.ItemStockTotal
		if err := rows.Scan(&t.ItemID, &t.SKU, &t.Name, &t.ReorderLevel, &t.UnitPrice, &t.IsActive, &t.Total); err != nil {
			return nil, fmt.Errorf("scan item total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ReportRepo) CountTransfersByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM transfer_requests WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return n, nil
}

// StockRows filas del reporte de stock; warehouseID vacío incluye todas las bodegas.
func (r *ReportRepo) StockRows(ctx context.Context, warehouseID string) ([]repository.StockReportRow, error) {
	var w where
	if warehouseID != "" {
		w.add("s.warehouse_id = ?", warehouseID)
	}
	query := `
		SELECT w.id, w.name, i.id, i.sku, i.name, s.quantity, i.reorder_level, i.unit_price
		FROM stock_levels s
		JOIN warehouses w ON w.id = s.warehouse_id
		JOIN items i ON i.id = s.item_id` + w.clause() + `
		ORDER BY w.name, i.sku`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("stock report rows: %w", err)
	}
	defer rows.Close()

	var out []repository.StockReportRow
	for rows.Next() {
		var row repository.StockReportRow
		if err := rows.Scan(&row.WarehouseID, &row.WarehouseName, &row.ItemID, &row.SKU, &row.ItemName,
			&row.Quantity, &row.ReorderLevel, &row.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan stock report row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
