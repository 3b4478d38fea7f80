package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo. El stock se maneja por bodega en StockLevel.
type Item struct {
	ID           string
	SKU          string // único
	Name         string
	Description  string
	CategoryID   string // vacío si no tiene
	SupplierID   string // vacío si no tiene
	UnitPrice    decimal.Decimal
	ReorderLevel int64
	IsActive     bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
