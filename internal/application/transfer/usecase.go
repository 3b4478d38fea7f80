// Package transfer implementa el ciclo de vida de las transferencias entre bodegas:
// PENDING -> APPROVED -> COMPLETED, con REJECTED y CANCELLED como salidas terminales.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// Observer recibe eventos del ciclo de vida para métricas.
type Observer interface {
	TransferTransition(to entity.TransferStatus)
	PartialCompletion()
}

type nopObserver struct{}

func (nopObserver) TransferTransition(entity.TransferStatus) {}
func (nopObserver) PartialCompletion()                       {}

// CreateInput datos para solicitar una transferencia.
type CreateInput struct {
	ItemID            string
	SourceWarehouseID string
	DestWarehouseID   string
	Quantity          int64
	Reason            string
	UserID            string
}

// Completion resultado de completar: la transferencia y sus dos transacciones.
type Completion struct {
	Transfer       *entity.Transfer
	OutTransaction *entity.Transaction
	InTransaction  *entity.Transaction
}

// UseCase gobierna las transiciones. Todas las escrituras de estado son condicionales sobre el estado actual.
type UseCase struct {
	transfers  repository.TransferRepository
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	ledger     *inventory.StockLedger
	log        *logger.Logger
	observer   Observer
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	transfers repository.TransferRepository,
	items repository.ItemRepository,
	warehouses repository.WarehouseRepository,
	ledger *inventory.StockLedger,
	log *logger.Logger,
	observer Observer,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &UseCase{
		transfers:  transfers,
		items:      items,
		warehouses: warehouses,
		ledger:     ledger,
		log:        log,
		observer:   observer,
		now:        time.Now,
	}
}

// Create valida la solicitud y la registra en PENDING.
// La verificación de stock en origen es orientativa: se repite al aprobar y se aplica al completar.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Transfer, error) {
	switch {
	case in.ItemID == "":
		return nil, domain.Invalid("item_id", "es requerido")
	case in.SourceWarehouseID == "":
		return nil, domain.Invalid("source_warehouse_id", "es requerido")
	case in.DestWarehouseID == "":
		return nil, domain.Invalid("dest_warehouse_id", "es requerido")
	case in.SourceWarehouseID == in.DestWarehouseID:
		return nil, domain.Invalid("dest_warehouse_id", "debe ser distinta de la bodega origen")
	case in.Quantity <= 0:
		return nil, domain.Invalid("quantity", "debe ser un entero positivo")
	}

	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, domain.Upstream("leer ítem", err)
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", in.ItemID, domain.ErrNotFound)
	}
	for _, id := range []string{in.SourceWarehouseID, in.DestWarehouseID} {
		wh, err := uc.warehouses.GetByID(ctx, id)
		if err != nil {
			return nil, domain.Upstream("leer bodega", err)
		}
		if wh == nil {
			return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
		}
	}
	if err := uc.checkStock(ctx, in.ItemID, in.SourceWarehouseID, in.Quantity); err != nil {
		return nil, err
	}

	now := uc.now()
	t := &entity.Transfer{
		ID:                uuid.New().String(),
		ItemID:            in.ItemID,
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Quantity:          in.Quantity,
		Status:            entity.TransferPending,
		Reason:            in.Reason,
		RequestedBy:       in.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.transfers.Create(ctx, t); err != nil {
		return nil, domain.Upstream("crear transferencia", err)
	}
	uc.observer.TransferTransition(entity.TransferPending)
	return t, nil
}

// Get obtiene una transferencia por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leer transferencia", err)
	}
	if t == nil {
		return nil, fmt.Errorf("transferencia %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// List lista transferencias con filtros opcionales.
func (uc *UseCase) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	list, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, domain.Upstream("listar transferencias", err)
	}
	return list, nil
}

// UpdateReason edita el motivo de una transferencia no terminal.
func (uc *UseCase) UpdateReason(ctx context.Context, id, reason string) (*entity.Transfer, error) {
	t, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status.IsTerminal() {
		return nil, &domain.TransitionError{TransferID: id, From: string(t.Status), To: string(t.Status)}
	}
	ok, err := uc.transfers.UpdateReason(ctx, id, reason, uc.now())
	if err != nil {
		return nil, domain.Upstream("actualizar transferencia", err)
	}
	if !ok {
		return nil, uc.lostRace(ctx, id, t.Status)
	}
	return uc.Get(ctx, id)
}

// Approve PENDING -> APPROVED; vuelve a verificar el stock en origen.
func (uc *UseCase) Approve(ctx context.Context, id, userID string) (*entity.Transfer, error) {
	t, err := uc.require(ctx, id, entity.TransferApproved)
	if err != nil {
		return nil, err
	}
	if err := uc.checkStock(ctx, t.ItemID, t.SourceWarehouseID, t.Quantity); err != nil {
		return nil, err
	}
	return uc.transition(ctx, t, entity.TransferApproved, userID)
}

// Reject PENDING -> REJECTED; sin efecto sobre el stock.
func (uc *UseCase) Reject(ctx context.Context, id, userID string) (*entity.Transfer, error) {
	t, err := uc.require(ctx, id, entity.TransferRejected)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, t, entity.TransferRejected, userID)
}

// Cancel PENDING|APPROVED -> CANCELLED; sin efecto sobre el stock.
func (uc *UseCase) Cancel(ctx context.Context, id, userID string) (*entity.Transfer, error) {
	t, err := uc.require(ctx, id, entity.TransferCancelled)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, t, entity.TransferCancelled, userID)
}

// Complete APPROVED -> COMPLETED: salida en origen y luego entrada en destino, ambas con el ID de la transferencia.
//
// La transferencia se reclama primero (APPROVED -> COMPLETED condicional) para que dos llamadas
// concurrentes no descuenten dos veces. Si la salida falla se libera el reclamo y queda APPROVED.
// Si la salida se aplica y la entrada falla, o la salida queda sin auditar, queda COMPLETED
// y se devuelve PartialCompletionError.
func (uc *UseCase) Complete(ctx context.Context, id, userID string) (*Completion, error) {
	t, err := uc.require(ctx, id, entity.TransferCompleted)
	if err != nil {
		return nil, err
	}
	ok, err := uc.transfers.Transition(ctx, id, []entity.TransferStatus{entity.TransferApproved}, entity.TransferCompleted, userID, uc.now())
	if err != nil {
		return nil, domain.Upstream("reclamar transferencia", err)
	}
	if !ok {
		return nil, uc.lostRace(ctx, id, entity.TransferCompleted)
	}

	notes := fmt.Sprintf("transferencia %s", id)
	out, err := uc.ledger.Apply(ctx, inventory.MutationInput{
		ItemID:      t.ItemID,
		WarehouseID: t.SourceWarehouseID,
		Type:        entity.TransactionOUT,
		Quantity:    t.Quantity,
		Notes:       notes,
		TransferID:  id,
		UserID:      userID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLedgerInconsistency) {
			// El stock de origen ya cambió; liberar permitiría descontarlo otra vez.
			uc.log.Consistency(logger.ConsistencyTransferPartial).Err(err).
				Str("transfer_id", id).
				Str("step", "out").
				Msg("salida de transferencia sin auditoría; queda COMPLETED para conciliación")
			uc.observer.PartialCompletion()
			return nil, &domain.PartialCompletionError{TransferID: id, Cause: err}
		}
		uc.release(ctx, id)
		return nil, err
	}

	in, err := uc.ledger.Apply(ctx, inventory.MutationInput{
		ItemID:      t.ItemID,
		WarehouseID: t.DestWarehouseID,
		Type:        entity.TransactionIN,
		Quantity:    t.Quantity,
		Notes:       notes,
		TransferID:  id,
		UserID:      userID,
	})
	if err != nil {
		uc.observer.PartialCompletion()
		uc.log.Consistency(logger.ConsistencyTransferPartial).Err(err).
			Str("transfer_id", id).
			Str("item_id", t.ItemID).
			Str("source_warehouse_id", t.SourceWarehouseID).
			Str("dest_warehouse_id", t.DestWarehouseID).
			Int64("quantity", t.Quantity).
			Str("out_transaction_id", out.Transaction.ID).
			Msg("salida aplicada pero la entrada en destino falló; requiere conciliación manual")
		return nil, &domain.PartialCompletionError{TransferID: id, OutTransactionID: out.Transaction.ID, Cause: err}
	}

	uc.observer.TransferTransition(entity.TransferCompleted)
	done, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Completion{Transfer: done, OutTransaction: out.Transaction, InTransaction: in.Transaction}, nil
}

// require carga la transferencia y verifica que to sea alcanzable desde su estado actual.
func (uc *UseCase) require(ctx context.Context, id string, to entity.TransferStatus) (*entity.Transfer, error) {
	t, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(t.Status, to) {
		return nil, &domain.TransitionError{TransferID: id, From: string(t.Status), To: string(to)}
	}
	return t, nil
}

func (uc *UseCase) transition(ctx context.Context, t *entity.Transfer, to entity.TransferStatus, userID string) (*entity.Transfer, error) {
	ok, err := uc.transfers.Transition(ctx, t.ID, entity.SourcesFor(to), to, userID, uc.now())
	if err != nil {
		return nil, domain.Upstream("actualizar transferencia", err)
	}
	if !ok {
		return nil, uc.lostRace(ctx, t.ID, to)
	}
	uc.observer.TransferTransition(to)
	return uc.Get(ctx, t.ID)
}

// release devuelve a APPROVED una transferencia reclamada cuya salida no se aplicó.
func (uc *UseCase) release(ctx context.Context, id string) {
	ok, err := uc.transfers.Transition(ctx, id, []entity.TransferStatus{entity.TransferCompleted}, entity.TransferApproved, "", uc.now())
	if err != nil || !ok {
		uc.log.Error().Err(err).Str("transfer_id", id).Bool("released", ok).
			Msg("no se pudo liberar la transferencia tras fallar la salida")
	}
}

// lostRace construye el error cuando la escritura condicional no encontró el estado esperado.
func (uc *UseCase) lostRace(ctx context.Context, id string, to entity.TransferStatus) error {
	current := "desconocido"
	if t, err := uc.transfers.GetByID(ctx, id); err == nil && t != nil {
		current = string(t.Status)
	}
	return &domain.TransitionError{TransferID: id, From: current, To: string(to)}
}

func (uc *UseCase) checkStock(ctx context.Context, itemID, warehouseID string, qty int64) error {
	available, err := uc.ledger.Available(ctx, itemID, warehouseID)
	if err != nil {
		return err
	}
	if available < qty {
		return &domain.StockError{ItemID: itemID, WarehouseID: warehouseID, Available: available, Requested: qty}
	}
	return nil
}
