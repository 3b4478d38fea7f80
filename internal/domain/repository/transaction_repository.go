package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// TransactionFilter filtros opcionales para el historial de transacciones.
type TransactionFilter struct {
	ItemID      string
	WarehouseID string
	Type        entity.TransactionType
	TransferID  string
	Limit       int
	Offset      int
}

// TransactionRepository registro de auditoría de solo inserción.
type TransactionRepository interface {
	Append(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
}
