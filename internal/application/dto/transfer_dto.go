package dto

import "time"

// CreateTransferRequest body de POST /transfer-requests.
type CreateTransferRequest struct {
	ItemID            string `json:"item_id" validate:"required"`
	SourceWarehouseID string `json:"source_warehouse_id" validate:"required"`
	DestWarehouseID   string `json:"dest_warehouse_id" validate:"required"`
	Quantity          int64  `json:"quantity" validate:"gt=0"`
	Reason            string `json:"reason" validate:"max=1000"`
}

// UpdateTransferRequest body de PUT /transfer-requests/:id (solo el motivo es editable).
type UpdateTransferRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                string     `json:"id"`
	ItemID            string     `json:"item_id"`
	SourceWarehouseID string     `json:"source_warehouse_id"`
	DestWarehouseID   string     `json:"dest_warehouse_id"`
	Quantity          int64      `json:"quantity"`
	Status            string     `json:"status"`
	Reason            string     `json:"reason,omitempty"`
	RequestedBy       string     `json:"requested_by,omitempty"`
	ApprovedBy        string     `json:"approved_by,omitempty"`
	CompletedBy       string     `json:"completed_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// TransferCompletionResponse resultado de completar: la transferencia y las dos transacciones.
type TransferCompletionResponse struct {
	Transfer       TransferResponse    `json:"transfer"`
	OutTransaction TransactionResponse `json:"out_transaction"`
	InTransaction  TransactionResponse `json:"in_transaction"`
}
