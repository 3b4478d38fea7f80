package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agrega sobre las tablas del store.
type ReportRepo struct{ s *Store }

func (r *ReportRepo) CountActiveWarehouses(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, w := range r.s.warehouses {
		if w.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *ReportRepo) ItemStockTotals(_ context.Context) ([]repository.ItemStockTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[string]int64, len(r.s.items))
	for _, l := range r.s.levels {
		totals[l.ItemID] += l.Quantity
	}
	out := make([]repository.ItemStockTotal, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, repository.ItemStockTotal{
			ItemID:       it.ID,
			SKU:          it.SKU,
			Name:         it.Name,
			ReorderLevel: it.ReorderLevel,
			UnitPrice:    it.UnitPrice,
			IsActive:     it.IsActive,
			Total:        totals[it.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *ReportRepo) CountTransfersByStatus(_ context.Context, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, t := range r.s.transfers {
		if string(t.Status) == status {
			n++
		}
	}
	return n, nil
}

func (r *ReportRepo) StockRows(_ context.Context, warehouseID string) ([]repository.StockReportRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.StockReportRow
	for _, l := range r.s.levels {
		if warehouseID != "" && l.WarehouseID != warehouseID {
			continue
		}
		wh, okW := r.s.warehouses[l.WarehouseID]
		it, okI := r.s.items[l.ItemID]
		if !okW || !okI {
			continue
		}
		out = append(out, repository.StockReportRow{
			WarehouseID:   wh.ID,
			WarehouseName: wh.Name,
			ItemID:        it.ID,
			SKU:           it.SKU,
			ItemName:      it.Name,
			Quantity:      l.Quantity,
			ReorderLevel:  it.ReorderLevel,
			UnitPrice:     it.UnitPrice,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseName != out[j].WarehouseName {
			return out[i].WarehouseName < out[j].WarehouseName
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}
