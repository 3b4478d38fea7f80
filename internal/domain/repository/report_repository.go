package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ItemStockTotal stock total de un ítem sumando todas las bodegas.
type ItemStockTotal struct {
	ItemID       string
	SKU          string
	Name         string
	ReorderLevel int64
	UnitPrice    decimal.Decimal
	IsActive     bool
	Total        int64
}

// StockReportRow fila del reporte de stock por bodega.
type StockReportRow struct {
	WarehouseID   string
	WarehouseName string
	ItemID        string
	SKU           string
	ItemName      string
	Quantity      int64
	ReorderLevel  int64
	UnitPrice     decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	CountActiveWarehouses(ctx context.Context) (int, error)
	ItemStockTotals(ctx context.Context) ([]ItemStockTotal, error)
	CountTransfersByStatus(ctx context.Context, status string) (int, error)
	StockRows(ctx context.Context, warehouseID string) ([]StockReportRow, error)
}
