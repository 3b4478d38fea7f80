package dto

import "time"

// StockMutationRequest body de POST /stock/transactions/{in|out|adjust}.
// En adjust, Quantity es la cantidad objetivo (>= 0); en todos los casos es obligatoria.
type StockMutationRequest struct {
	ItemID      string `json:"item_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    *int64 `json:"quantity" validate:"required,min=0"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// AdjustLevelRequest body de PUT /stock/levels/:id.
type AdjustLevelRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=0"`
	Reason   string `json:"reason" validate:"max=1000"`
}

// StockLevelResponse salida de un nivel de stock.
type StockLevelResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TransactionResponse salida de una transacción del libro.
type TransactionResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Notes       string    `json:"notes,omitempty"`
	TransferID  string    `json:"transfer_id,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockMutationResponse resultado de una mutación. Transaction es nil si el ajuste no cambió nada.
type StockMutationResponse struct {
	Level       StockLevelResponse   `json:"level"`
	Previous    int64                `json:"previous_quantity"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	NoOp        bool                 `json:"no_op"`
}
