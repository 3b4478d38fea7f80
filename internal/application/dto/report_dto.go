package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardDTO métricas del tablero principal.
type DashboardDTO struct {
	TotalStockItems  int64 `json:"total_stock_items"` // unidades sumadas en todas las bodegas
	LowStockItems    int   `json:"low_stock_items"`   // ítems activos con stock total <= reorder_level
	TotalWarehouses  int   `json:"total_warehouses"`
	ActiveItems      int   `json:"active_items"`
	PendingTransfers int   `json:"pending_transfers"`
}

// InventorySummaryDTO clasificación de ítems activos por disponibilidad y valor del inventario.
type InventorySummaryDTO struct {
	InStock    int             `json:"in_stock"`
	LowStock   int             `json:"low_stock"`
	OutOfStock int             `json:"out_of_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// LowStockItemDTO ítem bajo su nivel de reorden con la cantidad sugerida de pedido.
type LowStockItemDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderLevel       int64           `json:"reorder_level"`
	IdealStock         int64           `json:"ideal_stock"`          // reorder_level * 1.5, truncado
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * unit_price
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// StockReportLine fila exportable del reporte de stock.
type StockReportLine struct {
	WarehouseName string          `json:"warehouse_name"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	Quantity      int64           `json:"quantity"`
	ReorderLevel  int64           `json:"reorder_level"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Value         decimal.Decimal `json:"value"`
	Low           bool            `json:"low"`
}

// StockReport reporte completo listo para exportar.
type StockReport struct {
	Title       string            `json:"title"`
	GeneratedAt time.Time         `json:"generated_at"`
	Lines       []StockReportLine `json:"lines"`
	TotalUnits  int64             `json:"total_units"`
	TotalValue  decimal.Decimal   `json:"total_value"`
}
