package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// StockLevelFilter filtros opcionales para listar niveles de stock.
type StockLevelFilter struct {
	ItemID      string
	WarehouseID string
	Limit       int
	Offset      int
}

// StockLevelRepository puerto de persistencia de niveles de stock.
type StockLevelRepository interface {
	// GetByPair devuelve (nil, nil) si no existe fila para el par.
	GetByPair(ctx context.Context, itemID, warehouseID string) (*entity.StockLevel, error)
	GetByID(ctx context.Context, id string) (*entity.StockLevel, error)
	List(ctx context.Context, filter StockLevelFilter) ([]*entity.StockLevel, error)
	// CompareAndSet escribe level.Quantity solo si la cantidad almacenada sigue siendo *expected.
	// expected == nil exige que la fila no exista todavía (se inserta con level.ID).
	// Devuelve false, sin escribir, si otro escritor cambió la fila entre la lectura y la escritura.
	CompareAndSet(ctx context.Context, level *entity.StockLevel, expected *int64) (bool, error)
}
