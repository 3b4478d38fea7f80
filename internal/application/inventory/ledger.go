package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// Razones de rechazo reportadas al Observer.
const (
	RejectInsufficientStock = "insufficient_stock"
	RejectConcurrentUpdate  = "concurrent_update"
	RejectValidation        = "validation"
)

// MutationInput solicitud sobre el stock de un par (ítem, bodega).
// Para ADJUST, Quantity es la cantidad objetivo.
type MutationInput struct {
	ItemID      string
	WarehouseID string
	Type        entity.TransactionType
	Quantity    int64
	Notes       string
	TransferID  string
	UserID      string
}

// MutationResult estado después de aplicar la mutación.
type MutationResult struct {
	Level       *entity.StockLevel
	Previous    int64
	Transaction *entity.Transaction // nil si NoOp
	NoOp        bool
}

// StockLedger es la única vía para modificar cantidades de stock.
// Cada mutación exitosa escribe el nivel con una actualización condicional y registra exactamente una transacción.
type StockLedger struct {
	uow        UnitOfWork
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	levels     repository.StockLevelRepository
	txs        repository.TransactionRepository
	log        *logger.Logger
	observer   Observer
	now        func() time.Time
}

// NewStockLedger construye el libro. levels y txs se usan para lecturas fuera de la unidad de trabajo.
func NewStockLedger(
	uow UnitOfWork,
	items repository.ItemRepository,
	warehouses repository.WarehouseRepository,
	levels repository.StockLevelRepository,
	txs repository.TransactionRepository,
	log *logger.Logger,
	observer Observer,
) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &StockLedger{
		uow:        uow,
		items:      items,
		warehouses: warehouses,
		levels:     levels,
		txs:        txs,
		log:        log,
		observer:   observer,
		now:        time.Now,
	}
}

// Apply valida la solicitud, lee el nivel actual (fila ausente = 0), calcula el nuevo valor
// y lo escribe solo si nadie lo cambió desde la lectura.
func (l *StockLedger) Apply(ctx context.Context, in MutationInput) (*MutationResult, error) {
	if err := validateMutation(in); err != nil {
		l.observer.MutationRejected(RejectValidation)
		return nil, err
	}
	if err := l.ensureRefs(ctx, in.ItemID, in.WarehouseID); err != nil {
		return nil, err
	}

	var res *MutationResult
	err := l.uow.Run(ctx, func(levels repository.StockLevelRepository, txs repository.TransactionRepository) error {
		level, err := levels.GetByPair(ctx, in.ItemID, in.WarehouseID)
		if err != nil {
			return domain.Upstream("leer stock", err)
		}
		var current int64
		var expected *int64
		if level != nil {
			current = level.Quantity
			expected = &current
		}

		m, err := inventory.Plan(current, in.Type, in.Quantity)
		if err != nil {
			var se *domain.StockError
			if errors.As(err, &se) {
				se.ItemID, se.WarehouseID = in.ItemID, in.WarehouseID
			}
			return err
		}
		if m.NoOp {
			res = &MutationResult{Level: levelOrZero(level, in), Previous: current, NoOp: true}
			return nil
		}

		now := l.now()
		next := &entity.StockLevel{
			ItemID:      in.ItemID,
			WarehouseID: in.WarehouseID,
			Quantity:    m.Next,
			UpdatedAt:   now,
		}
		if level != nil {
			next.ID = level.ID
		} else {
			next.ID = uuid.New().String()
		}
		ok, err := levels.CompareAndSet(ctx, next, expected)
		if err != nil {
			return domain.Upstream("escribir stock", err)
		}
		if !ok {
			return fmt.Errorf("%s/%s: %w", in.ItemID, in.WarehouseID, domain.ErrConcurrentUpdate)
		}

		tx := &entity.Transaction{
			ID:          uuid.New().String(),
			ItemID:      in.ItemID,
			WarehouseID: in.WarehouseID,
			Type:        m.LoggedType,
			Quantity:    m.Logged,
			Notes:       in.Notes,
			TransferID:  in.TransferID,
			CreatedBy:   in.UserID,
			CreatedAt:   now,
		}
		if err := txs.Append(ctx, tx); err != nil {
			if !l.uow.Atomic() {
				return &domain.LedgerInconsistencyError{
					ItemID:      in.ItemID,
					WarehouseID: in.WarehouseID,
					Previous:    current,
					Current:     m.Next,
					Cause:       err,
				}
			}
			return domain.Upstream("registrar transacción", err)
		}
		res = &MutationResult{Level: next, Previous: current, Transaction: tx}
		return nil
	})
	if err != nil {
		l.report(in, err)
		return nil, err
	}
	if !res.NoOp {
		l.observer.MutationApplied(in.Type)
	}
	return res, nil
}

// AdjustLevel ajusta al valor objetivo el nivel identificado por levelID (PUT /stock/levels/:id).
func (l *StockLedger) AdjustLevel(ctx context.Context, levelID string, target int64, reason, userID string) (*MutationResult, error) {
	level, err := l.levels.GetByID(ctx, levelID)
	if err != nil {
		return nil, domain.Upstream("leer stock", err)
	}
	if level == nil {
		return nil, fmt.Errorf("nivel de stock %s: %w", levelID, domain.ErrNotFound)
	}
	return l.Apply(ctx, MutationInput{
		ItemID:      level.ItemID,
		WarehouseID: level.WarehouseID,
		Type:        entity.TransactionADJUST,
		Quantity:    target,
		Notes:       reason,
		UserID:      userID,
	})
}

// Available devuelve la cantidad actual del par (0 si no hay fila). Solo lectura, sin garantía de frescura.
func (l *StockLedger) Available(ctx context.Context, itemID, warehouseID string) (int64, error) {
	level, err := l.levels.GetByPair(ctx, itemID, warehouseID)
	if err != nil {
		return 0, domain.Upstream("leer stock", err)
	}
	if level == nil {
		return 0, nil
	}
	return level.Quantity, nil
}

// ListLevels lista niveles con filtros opcionales.
func (l *StockLedger) ListLevels(ctx context.Context, filter repository.StockLevelFilter) ([]*entity.StockLevel, error) {
	list, err := l.levels.List(ctx, filter)
	if err != nil {
		return nil, domain.Upstream("listar stock", err)
	}
	return list, nil
}

// GetLevel obtiene un nivel por ID.
func (l *StockLedger) GetLevel(ctx context.Context, id string) (*entity.StockLevel, error) {
	level, err := l.levels.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leer stock", err)
	}
	if level == nil {
		return nil, fmt.Errorf("nivel de stock %s: %w", id, domain.ErrNotFound)
	}
	return level, nil
}

// ListTransactions historial del libro con filtros opcionales.
func (l *StockLedger) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Type != "" && filter.Type != entity.TransactionIN && filter.Type != entity.TransactionOUT {
		return nil, domain.Invalid("type", "debe ser IN u OUT")
	}
	list, err := l.txs.List(ctx, filter)
	if err != nil {
		return nil, domain.Upstream("listar transacciones", err)
	}
	return list, nil
}

// GetTransaction obtiene una transacción por ID.
func (l *StockLedger) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	tx, err := l.txs.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leer transacción", err)
	}
	if tx == nil {
		return nil, fmt.Errorf("transacción %s: %w", id, domain.ErrNotFound)
	}
	return tx, nil
}

func (l *StockLedger) ensureRefs(ctx context.Context, itemID, warehouseID string) error {
	item, err := l.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.Upstream("leer ítem", err)
	}
	if item == nil {
		return fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	wh, err := l.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return domain.Upstream("leer bodega", err)
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	return nil
}

func (l *StockLedger) report(in MutationInput, err error) {
	var inc *domain.LedgerInconsistencyError
	switch {
	case errors.As(err, &inc):
		l.observer.LedgerInconsistency()
		l.log.Consistency(logger.ConsistencyLedgerAuditMissing).
			Err(inc.Cause).
			Str("item_id", inc.ItemID).
			Str("warehouse_id", inc.WarehouseID).
			Str("transfer_id", in.TransferID).
			Int64("previous_quantity", inc.Previous).
			Int64("current_quantity", inc.Current).
			Msg("stock escrito sin transacción de auditoría; requiere conciliación")
	case errors.Is(err, domain.ErrInsufficientStock):
		l.observer.MutationRejected(RejectInsufficientStock)
	case errors.Is(err, domain.ErrConcurrentUpdate):
		l.observer.MutationRejected(RejectConcurrentUpdate)
		l.log.Warn().Str("item_id", in.ItemID).Str("warehouse_id", in.WarehouseID).
			Msg("mutación de stock perdió la carrera")
	case errors.Is(err, domain.ErrInvalidInput):
		l.observer.MutationRejected(RejectValidation)
	}
}

func validateMutation(in MutationInput) error {
	if in.ItemID == "" {
		return domain.Invalid("item_id", "es requerido")
	}
	if in.WarehouseID == "" {
		return domain.Invalid("warehouse_id", "es requerido")
	}
	if !in.Type.Valid() {
		return domain.Invalid("type", "debe ser IN, OUT o ADJUST")
	}
	if in.Type == entity.TransactionADJUST {
		if in.Quantity < 0 {
			return domain.Invalid("quantity", "el objetivo no puede ser negativo")
		}
	} else if in.Quantity <= 0 {
		return domain.Invalid("quantity", "debe ser un entero positivo")
	}
	return nil
}

func levelOrZero(level *entity.StockLevel, in MutationInput) *entity.StockLevel {
	if level != nil {
		return level
	}
	return &entity.StockLevel{ItemID: in.ItemID, WarehouseID: in.WarehouseID}
}
