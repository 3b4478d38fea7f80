package entity

import "time"

// StockLevel cantidad disponible de un ítem en una bodega.
// Hay como máximo una fila por par (ItemID, WarehouseID) y Quantity nunca es negativa.
type StockLevel struct {
	ID          string
	ItemID      string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
