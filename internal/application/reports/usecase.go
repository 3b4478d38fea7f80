// Package reports contiene los casos de uso de reportes de inventario: tablero, resumen,
// reposición de ítems bajo el nivel de reorden y el reporte de stock exportable.
package reports

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// Exporter escribe un StockReport en un formato binario (XLSX, PDF).
type Exporter interface {
	ContentType() string
	Extension() string
	Export(w io.Writer, report *dto.StockReport) error
}

// UseCase reportes de solo lectura; delega las consultas en ReportRepository.
type UseCase struct {
	repo       repository.ReportRepository
	warehouses repository.WarehouseRepository
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReportRepository, warehouses repository.WarehouseRepository) *UseCase {
	return &UseCase{repo: repo, warehouses: warehouses, now: time.Now}
}

// Dashboard métricas del tablero principal.
//
// Tres consultas en paralelo:
//  1. ItemStockTotals           → total_stock_items, low_stock_items, active_items
//  2. CountActiveWarehouses     → total_warehouses
//  3. CountTransfersByStatus    → pending_transfers
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	type totalsResult struct {
		totals []repository.ItemStockTotal
		err    error
	}
	type countResult struct {
		n   int
		err error
	}

	totalsCh := make(chan totalsResult, 1)
	whCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)

	go func() {
		t, err := uc.repo.ItemStockTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		n, err := uc.repo.CountActiveWarehouses(ctx)
		whCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountTransfersByStatus(ctx, string(entity.TransferPending))
		pendingCh <- countResult{n, err}
	}()

	totals := <-totalsCh
	wh := <-whCh
	pending := <-pendingCh

	if totals.err != nil {
		return nil, domain.Upstream("dashboard: stock por ítem", totals.err)
	}
	if wh.err != nil {
		return nil, domain.Upstream("dashboard: bodegas", wh.err)
	}
	if pending.err != nil {
		return nil, domain.Upstream("dashboard: transferencias", pending.err)
	}

	out := &dto.DashboardDTO{TotalWarehouses: wh.n, PendingTransfers: pending.n}
	for _, t := range totals.totals {
		out.TotalStockItems += t.Total
		if !t.IsActive {
			continue
		}
		out.ActiveItems++
		if t.Total <= t.ReorderLevel {
			out.LowStockItems++
		}
	}
	return out, nil
}

// InventorySummary clasifica los ítems activos: sin stock (0), bajo (0 < total <= reorden) o disponible.
// El valor total suma cantidad × precio de todos los ítems, activos o no.
func (uc *UseCase) InventorySummary(ctx context.Context) (*dto.InventorySummaryDTO, error) {
	totals, err := uc.repo.ItemStockTotals(ctx)
	if err != nil {
		return nil, domain.Upstream("resumen de inventario", err)
	}
	out := &dto.InventorySummaryDTO{TotalValue: decimal.Zero}
	for _, t := range totals {
		out.TotalValue = out.TotalValue.Add(t.UnitPrice.Mul(decimal.NewFromInt(t.Total)))
		if !t.IsActive {
			continue
		}
		switch {
		case t.Total == 0:
			out.OutOfStock++
		case t.Total <= t.ReorderLevel:
			out.LowStock++
		default:
			out.InStock++
		}
	}
	out.TotalValue = out.TotalValue.Round(2)
	return out, nil
}

// LowStock ítems activos con stock total <= reorder_level, con la cantidad sugerida para volver
// a un stock ideal de 1.5 × reorden. Orden: mayor déficit relativo primero, luego mayor déficit absoluto.
func (uc *UseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	totals, err := uc.repo.ItemStockTotals(ctx)
	if err != nil {
		return nil, domain.Upstream("ítems bajo reorden", err)
	}
	out := make([]dto.LowStockItemDTO, 0)
	for _, t := range totals {
		if !t.IsActive || t.Total > t.ReorderLevel {
			continue
		}
		ideal := t.ReorderLevel * 3 / 2
		suggested := ideal - t.Total
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockItemDTO{
			ItemID:             t.ItemID,
			SKU:                t.SKU,
			Name:               t.Name,
			CurrentStock:       t.Total,
			ReorderLevel:       t.ReorderLevel,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			EstimatedOrderCost: t.UnitPrice.Mul(decimal.NewFromInt(suggested)).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.ReorderLevel-a.CurrentStock > b.ReorderLevel-b.CurrentStock
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// coverage fracción del nivel de reorden cubierta por el stock actual (0 = agotado).
func coverage(it dto.LowStockItemDTO) decimal.Decimal {
	if it.ReorderLevel == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(it.CurrentStock).Div(decimal.NewFromInt(it.ReorderLevel))
}

// StockReport filas de stock por bodega (todas si warehouseID es vacío) con subtotales.
func (uc *UseCase) StockReport(ctx context.Context, warehouseID string) (*dto.StockReport, error) {
	title := "Reporte de stock"
	if warehouseID != "" {
		wh, err := uc.warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, domain.Upstream("leer bodega", err)
		}
		if wh == nil {
			return nil, fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
		}
		title = "Reporte de stock - " + wh.Name
	}
	rows, err := uc.repo.StockRows(ctx, warehouseID)
	if err != nil {
		return nil, domain.Upstream("reporte de stock", err)
	}

	report := &dto.StockReport{
		Title:       title,
		GeneratedAt: uc.now(),
		Lines:       make([]dto.StockReportLine, 0, len(rows)),
		TotalValue:  decimal.Zero,
	}
	for _, r := range rows {
		value := r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity)).Round(2)
		report.Lines = append(report.Lines, dto.StockReportLine{
			WarehouseName: r.WarehouseName,
			SKU:           r.SKU,
			ItemName:      r.ItemName,
			Quantity:      r.Quantity,
			ReorderLevel:  r.ReorderLevel,
			UnitPrice:     r.UnitPrice,
			Value:         value,
			Low:           r.Quantity <= r.ReorderLevel,
		})
		report.TotalUnits += r.Quantity
		report.TotalValue = report.TotalValue.Add(value)
	}
	return report, nil
}

// Export genera el reporte de stock y lo escribe con el exportador indicado.
func (uc *UseCase) Export(ctx context.Context, warehouseID string, exp Exporter, w io.Writer) error {
	report, err := uc.StockReport(ctx, warehouseID)
	if err != nil {
		return err
	}
	if err := exp.Export(w, report); err != nil {
		return fmt.Errorf("exportar %s: %w", exp.Extension(), err)
	}
	return nil
}
