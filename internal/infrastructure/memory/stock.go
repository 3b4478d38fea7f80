package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ── Stock levels ──────────────────────────────────────────────────────────────

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

type StockLevelRepo struct{ s *Store }

func (r *StockLevelRepo) findPair(itemID, warehouseID string) (entity.StockLevel, bool) {
	for _, l := range r.s.levels {
		if l.ItemID == itemID && l.WarehouseID == warehouseID {
			return l, true
		}
	}
	return entity.StockLevel{}, false
}

func (r *StockLevelRepo) GetByPair(_ context.Context, itemID, warehouseID string) (*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.findPair(itemID, warehouseID)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *StockLevelRepo) GetByID(_ context.Context, id string) (*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.levels[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *StockLevelRepo) List(_ context.Context, f repository.StockLevelFilter) ([]*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.StockLevel, 0, len(r.s.levels))
	for _, l := range r.s.levels {
		if f.ItemID != "" && l.ItemID != f.ItemID {
			continue
		}
		if f.WarehouseID != "" && l.WarehouseID != f.WarehouseID {
			continue
		}
		l := l
		list = append(list, &l)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].ItemID < list[j].ItemID
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *StockLevelRepo) CompareAndSet(_ context.Context, level *entity.StockLevel, expected *int64) (bool, error) {
	if h := r.s.currentHooks().BeforeCompareAndSet; h != nil {
		h(level)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if level.Quantity < 0 {
		return false, domain.Invalid("quantity", "no puede ser negativa")
	}
	cur, exists := r.findPair(level.ItemID, level.WarehouseID)
	switch {
	case expected == nil && exists:
		return false, nil
	case expected != nil && (!exists || cur.Quantity != *expected):
		return false, nil
	}
	if exists {
		cur.Quantity = level.Quantity
		cur.UpdatedAt = level.UpdatedAt
		r.s.levels[cur.ID] = cur
		level.ID = cur.ID
		return true, nil
	}
	r.s.levels[level.ID] = *level
	return true, nil
}

// SetLevel escribe una cantidad sin pasar por el libro (preparación de tests).
func (s *Store) SetLevel(id, itemID, warehouseID string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, l := range s.levels {
		if l.ItemID == itemID && l.WarehouseID == warehouseID {
			delete(s.levels, k)
		}
	}
	s.levels[id] = entity.StockLevel{ID: id, ItemID: itemID, WarehouseID: warehouseID, Quantity: qty, UpdatedAt: time.Now()}
}

// ── Transactions ──────────────────────────────────────────────────────────────

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) Append(_ context.Context, tx *entity.Transaction) error {
	if h := r.s.currentHooks().BeforeAppend; h != nil {
		if err := h(tx); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, tx := range r.s.txs {
		if tx.ID == id {
			tx := tx
			return &tx, nil
		}
	}
	return nil, nil
}

// List devuelve las transacciones más recientes primero.
func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Transaction, 0, len(r.s.txs))
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		tx := r.s.txs[i]
		if f.ItemID != "" && tx.ItemID != f.ItemID {
			continue
		}
		if f.WarehouseID != "" && tx.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.TransferID != "" && tx.TransferID != f.TransferID {
			continue
		}
		list = append(list, &tx)
	}
	return page(list, f.Limit, f.Offset), nil
}

// ── Transfers ─────────────────────────────────────────────────────────────────

var _ repository.TransferRepository = (*TransferRepo)(nil)

type TransferRepo struct{ s *Store }

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transfers[t.ID] = *t
	return nil
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Transfer, 0, len(r.s.transfers))
	for _, t := range r.s.transfers {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.ItemID != "" && t.ItemID != f.ItemID {
			continue
		}
		if f.WarehouseID != "" && t.SourceWarehouseID != f.WarehouseID && t.DestWarehouseID != f.WarehouseID {
			continue
		}
		t := t
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), nil
}

func (r *TransferRepo) Transition(_ context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, actorID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range from {
		if t.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	applyTransition(&t, to, actorID, at)
	r.s.transfers[id] = t
	return true, nil
}

func (r *TransferRepo) UpdateReason(_ context.Context, id, reason string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok || t.Status.IsTerminal() {
		return false, nil
	}
	t.Reason = reason
	t.UpdatedAt = at
	r.s.transfers[id] = t
	return true, nil
}

// applyTransition replica las columnas que actualiza el adaptador SQL.
func applyTransition(t *entity.Transfer, to entity.TransferStatus, actorID string, at time.Time) {
	switch {
	case to == entity.TransferApproved && t.Status == entity.TransferCompleted:
		// liberación del reclamo de completado
		t.CompletedBy = ""
		t.CompletedAt = nil
	case to == entity.TransferApproved, to == entity.TransferRejected:
		t.ApprovedBy = actorID
		t.ApprovedAt = &at
	case to == entity.TransferCompleted:
		t.CompletedBy = actorID
		t.CompletedAt = &at
	}
	t.Status = to
	t.UpdatedAt = at
}
