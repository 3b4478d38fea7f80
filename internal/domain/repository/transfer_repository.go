package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// TransferFilter filtros opcionales para listar transferencias.
type TransferFilter struct {
	Status      entity.TransferStatus
	ItemID      string
	WarehouseID string // origen o destino
	Limit       int
	Offset      int
}

// TransferRepository persistencia de solicitudes de transferencia.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
	// Transition cambia el estado a to solo si el estado actual está en from.
	// Devuelve false si la fila no estaba en ninguno de esos estados.
	Transition(ctx context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, actorID string, at time.Time) (bool, error)
	// UpdateReason edita el motivo mientras la transferencia no sea terminal.
	UpdateReason(ctx context.Context, id, reason string, at time.Time) (bool, error)
}
