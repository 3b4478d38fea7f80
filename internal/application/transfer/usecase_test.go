package transfer_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

const (
	itemI = "item-I"
	whA   = "wh-A"
	whB   = "wh-B"
)

type transferRecorder struct {
	mu          sync.Mutex
	transitions map[entity.TransferStatus]int
	partial     int
}

func (r *transferRecorder) TransferTransition(to entity.TransferStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[to]++
}

func (r *transferRecorder) PartialCompletion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partial++
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.StockLedger
	uc     *transfer.UseCase
	rec    *transferRecorder
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{ID: itemI, SKU: "SKU-I", Name: "Item I", UnitPrice: decimal.NewFromInt(5), IsActive: true}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: whA, Name: "A", IsActive: true}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: whB, Name: "B", IsActive: true}))

	logs := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "test", Level: "warn", Output: logs})
	ledger := inventory.NewStockLedger(store.UnitOfWork(), store.Items(), store.Warehouses(), store.StockLevels(), store.Transactions(), log, nil)
	rec := &transferRecorder{transitions: map[entity.TransferStatus]int{}}
	uc := transfer.NewUseCase(store.Transfers(), store.Items(), store.Warehouses(), ledger, log, rec)
	return &fixture{store: store, ledger: ledger, uc: uc, rec: rec, logs: logs}
}

func (f *fixture) quantity(t *testing.T, wh string) int64 {
	t.Helper()
	q, err := f.ledger.Available(context.Background(), itemI, wh)
	require.NoError(t, err)
	return q
}

func (f *fixture) create(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), transfer.CreateInput{
		ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: qty, Reason: "reposición", UserID: "u-staff",
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) approved(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	tr := f.create(t, qty)
	tr, err := f.uc.Approve(context.Background(), tr.ID, "u-manager")
	require.NoError(t, err)
	return tr
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_QuedaPendiente(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)

	tr := f.create(t, 4)
	assert.Equal(t, entity.TransferPending, tr.Status)
	assert.Equal(t, "u-staff", tr.RequestedBy)
	assert.Equal(t, int64(10), f.quantity(t, whA), "crear no mueve stock")
	assert.Equal(t, 1, f.rec.transitions[entity.TransferPending])
}

func TestCreate_MismaBodegaRechazadaAunConStock(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 100)

	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: whA, Quantity: 1,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dest_warehouse_id", ve.Field)

	list, err := f.uc.List(context.Background(), repository.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)

	tests := []struct {
		name string
		in   transfer.CreateInput
		want error
	}{
		{"sin ítem", transfer.CreateInput{SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: 1}, domain.ErrInvalidInput},
		{"sin origen", transfer.CreateInput{ItemID: itemI, DestWarehouseID: whB, Quantity: 1}, domain.ErrInvalidInput},
		{"cantidad cero", transfer.CreateInput{ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: whB}, domain.ErrInvalidInput},
		{"cantidad negativa", transfer.CreateInput{ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: -3}, domain.ErrInvalidInput},
		{"ítem inexistente", transfer.CreateInput{ItemID: "nope", SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: 1}, domain.ErrNotFound},
		{"destino inexistente", transfer.CreateInput{ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: "nope", Quantity: 1}, domain.ErrNotFound},
		{"stock insuficiente", transfer.CreateInput{ItemID: itemI, SourceWarehouseID: whA, DestWarehouseID: whB, Quantity: 11}, domain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_MueveStockYEtiquetaTransacciones(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)

	tr := f.approved(t, 4)
	assert.Equal(t, "u-manager", tr.ApprovedBy)
	require.NotNil(t, tr.ApprovedAt)

	done, err := f.uc.Complete(context.Background(), tr.ID, "u-staff")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, done.Transfer.Status)
	assert.Equal(t, "u-staff", done.Transfer.CompletedBy)
	assert.Equal(t, int64(6), f.quantity(t, whA))
	assert.Equal(t, int64(4), f.quantity(t, whB))

	require.NotNil(t, done.OutTransaction)
	require.NotNil(t, done.InTransaction)
	assert.Equal(t, entity.TransactionOUT, done.OutTransaction.Type)
	assert.Equal(t, entity.TransactionIN, done.InTransaction.Type)

	tagged, err := f.ledger.ListTransactions(context.Background(), repository.TransactionFilter{TransferID: tr.ID})
	require.NoError(t, err)
	assert.Len(t, tagged, 2)
	assert.Equal(t, 1, f.rec.transitions[entity.TransferCompleted])
}

func TestComplete_StockCayoDespuesDeAprobar(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.approved(t, 6)

	_, err := f.ledger.Apply(context.Background(), inventory.MutationInput{
		ItemID: itemI, WarehouseID: whA, Type: entity.TransactionOUT, Quantity: 8, UserID: "u-staff",
	})
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), tr.ID, "u-staff")
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(2), se.Available)
	assert.Equal(t, int64(6), se.Requested)

	got, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferApproved, got.Status, "el reclamo se libera si la salida falla")
	assert.Empty(t, got.CompletedBy)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, int64(2), f.quantity(t, whA))
	assert.Equal(t, int64(0), f.quantity(t, whB))
}

func TestApprove_VuelveAVerificarStock(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 5)
	tr := f.create(t, 5)
	f.store.SetLevel("lvl-a", itemI, whA, 3)

	_, err := f.uc.Approve(context.Background(), tr.ID, "u-manager")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, got.Status)
}

func TestComplete_SegundaLlamadaNoDescuentaDosVeces(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.approved(t, 4)

	_, err := f.uc.Complete(context.Background(), tr.ID, "u-staff")
	require.NoError(t, err)
	_, err = f.uc.Complete(context.Background(), tr.ID, "u-staff")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(6), f.quantity(t, whA))
}

func TestComplete_ConcurrenteSoloUnoGana(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.approved(t, 4)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Complete(context.Background(), tr.ID, "u-staff"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(6), f.quantity(t, whA))
	assert.Equal(t, int64(4), f.quantity(t, whB))
}

func TestComplete_EntradaFallaEsCompletadoParcial(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.approved(t, 4)

	// la bodega destino desaparece entre la aprobación y el completado
	require.NoError(t, f.store.Warehouses().Delete(context.Background(), whB))

	_, err := f.uc.Complete(context.Background(), tr.ID, "u-staff")
	var pe *domain.PartialCompletionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, tr.ID, pe.TransferID)
	assert.NotEmpty(t, pe.OutTransactionID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, got.Status, "no se libera: reintentar descontaría dos veces")
	assert.Equal(t, int64(6), f.quantity(t, whA))
	assert.Equal(t, 1, f.rec.partial)
	assert.Contains(t, f.logs.String(), "transfer_partial_completion")
}

func TestComplete_AuditoriaDeSalidaFallaNoLibera(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.approved(t, 4)

	f.store.SetHooks(memory.Hooks{BeforeAppend: func(tx *entity.Transaction) error {
		if tx.Type == entity.TransactionOUT {
			return errors.New("insert falló")
		}
		return nil
	}})

	_, err := f.uc.Complete(context.Background(), tr.ID, "u-staff")
	var pe *domain.PartialCompletionError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, pe.OutTransactionID)
	assert.ErrorIs(t, err, domain.ErrPartialCompletion)
	assert.ErrorIs(t, err, domain.ErrLedgerInconsistency, "la causa sigue accesible")

	got, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, got.Status)
	assert.Equal(t, int64(6), f.quantity(t, whA))
	assert.Equal(t, int64(0), f.quantity(t, whB))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransiciones_DesdeCadaEstado(t *testing.T) {
	type op func(uc *transfer.UseCase, id string) error
	ops := map[string]op{
		"approve": func(uc *transfer.UseCase, id string) error {
			_, err := uc.Approve(context.Background(), id, "u-manager")
			return err
		},
		"reject": func(uc *transfer.UseCase, id string) error {
			_, err := uc.Reject(context.Background(), id, "u-manager")
			return err
		},
		"cancel": func(uc *transfer.UseCase, id string) error {
			_, err := uc.Cancel(context.Background(), id, "u-staff")
			return err
		},
		"complete": func(uc *transfer.UseCase, id string) error {
			_, err := uc.Complete(context.Background(), id, "u-staff")
			return err
		},
	}
	allowed := map[entity.TransferStatus]map[string]bool{
		entity.TransferPending:   {"approve": true, "reject": true, "cancel": true},
		entity.TransferApproved:  {"complete": true, "cancel": true},
		entity.TransferCompleted: {},
		entity.TransferRejected:  {},
		entity.TransferCancelled: {},
	}
	reach := map[entity.TransferStatus][]string{
		entity.TransferPending:   nil,
		entity.TransferApproved:  {"approve"},
		entity.TransferCompleted: {"approve", "complete"},
		entity.TransferRejected:  {"reject"},
		entity.TransferCancelled: {"cancel"},
	}

	for status, path := range reach {
		for name, run := range ops {
			t.Run(string(status)+"/"+name, func(t *testing.T) {
				f := newFixture(t)
				f.store.SetLevel("lvl-a", itemI, whA, 100)
				tr := f.create(t, 1)
				for _, step := range path {
					require.NoError(t, ops[step](f.uc, tr.ID))
				}

				err := run(f.uc, tr.ID)
				if allowed[status][name] {
					assert.NoError(t, err)
					return
				}
				var te *domain.TransitionError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, string(status), te.From)

				got, gerr := f.uc.Get(context.Background(), tr.ID)
				require.NoError(t, gerr)
				assert.Equal(t, status, got.Status, "un rechazo no cambia el estado")
			})
		}
	}
}

func TestRejectYCancel_NoTocanStock(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)

	rejected := f.create(t, 3)
	_, err := f.uc.Reject(context.Background(), rejected.ID, "u-manager")
	require.NoError(t, err)

	cancelled := f.approved(t, 3)
	_, err = f.uc.Cancel(context.Background(), cancelled.ID, "u-staff")
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.quantity(t, whA))
	assert.Equal(t, int64(0), f.quantity(t, whB))
}

func TestUpdateReason(t *testing.T) {
	f := newFixture(t)
	f.store.SetLevel("lvl-a", itemI, whA, 10)
	tr := f.create(t, 2)

	got, err := f.uc.UpdateReason(context.Background(), tr.ID, "urgente")
	require.NoError(t, err)
	assert.Equal(t, "urgente", got.Reason)

	_, err = f.uc.Reject(context.Background(), tr.ID, "u-manager")
	require.NoError(t, err)
	_, err = f.uc.UpdateReason(context.Background(), tr.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGet_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.List(context.Background(), repository.TransferFilter{Status: "DONE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
