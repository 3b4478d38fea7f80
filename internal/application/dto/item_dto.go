package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	SKU          string          `json:"sku" validate:"required,min=1,max=64"`
	Description  string          `json:"description" validate:"max=2000"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID   string          `json:"supplier_id" validate:"omitempty,uuid"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level" validate:"min=0"`
	IsActive     *bool           `json:"is_active"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID   *string          `json:"supplier_id" validate:"omitempty,uuid"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ReorderLevel *int64           `json:"reorder_level" validate:"omitempty,min=0"`
	IsActive     *bool            `json:"is_active"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
