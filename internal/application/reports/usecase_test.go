package reports_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
)

// seed: A total 10 (reorden 10, bajo), B total 20 (disponible), C 0 (agotado), D inactivo con 5.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central", IsActive: true}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Name: "Norte", IsActive: true}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w3", Name: "Cerrada", IsActive: false}))

	items := []entity.Item{
		{ID: "a", SKU: "A", Name: "Alfa", ReorderLevel: 10, UnitPrice: decimal.RequireFromString("2.50"), IsActive: true},
		{ID: "b", SKU: "B", Name: "Beta", ReorderLevel: 5, UnitPrice: decimal.NewFromInt(1), IsActive: true},
		{ID: "c", SKU: "C", Name: "Gama", ReorderLevel: 4, UnitPrice: decimal.NewFromInt(100), IsActive: true},
		{ID: "d", SKU: "D", Name: "Delta", ReorderLevel: 50, UnitPrice: decimal.NewFromInt(3), IsActive: false},
	}
	for i := range items {
		require.NoError(t, s.Items().Create(ctx, &items[i]))
	}
	s.SetLevel("l1", "a", "w1", 6)
	s.SetLevel("l2", "a", "w2", 4)
	s.SetLevel("l3", "b", "w1", 20)
	s.SetLevel("l4", "d", "w2", 5)
	return s
}

func newUseCase(s *memory.Store) *reports.UseCase {
	return reports.NewUseCase(s.Reports(), s.Warehouses())
}

func TestDashboard(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Transfers().Create(ctx, &entity.Transfer{ID: "t1", Status: entity.TransferPending, CreatedAt: time.Now()}))
	require.NoError(t, s.Transfers().Create(ctx, &entity.Transfer{ID: "t2", Status: entity.TransferApproved, CreatedAt: time.Now()}))

	d, err := newUseCase(s).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(35), d.TotalStockItems)
	assert.Equal(t, 2, d.LowStockItems, "A (10 <= 10) y C (0 <= 4)")
	assert.Equal(t, 2, d.TotalWarehouses)
	assert.Equal(t, 3, d.ActiveItems)
	assert.Equal(t, 1, d.PendingTransfers)
}

func TestInventorySummary(t *testing.T) {
	sum, err := newUseCase(seed(t)).InventorySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.InStock)
	assert.Equal(t, 1, sum.LowStock)
	assert.Equal(t, 1, sum.OutOfStock)
	// 10×2.50 + 20×1 + 5×3
	assert.True(t, decimal.NewFromInt(60).Equal(sum.TotalValue), sum.TotalValue.String())
}

func TestLowStock_SugerenciaYPrioridad(t *testing.T) {
	low, err := newUseCase(seed(t)).LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)

	assert.Equal(t, "c", low[0].ItemID, "agotado primero")
	assert.Equal(t, 1, low[0].Priority)
	assert.Equal(t, int64(6), low[0].IdealStock)
	assert.Equal(t, int64(6), low[0].SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(600).Equal(low[0].EstimatedOrderCost))

	assert.Equal(t, "a", low[1].ItemID)
	assert.Equal(t, int64(15), low[1].IdealStock)
	assert.Equal(t, int64(5), low[1].SuggestedOrderQty)
	assert.True(t, decimal.RequireFromString("12.5").Equal(low[1].EstimatedOrderCost))
}

func TestStockReport(t *testing.T) {
	uc := newUseCase(seed(t))
	ctx := context.Background()

	all, err := uc.StockReport(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Lines, 4)
	assert.Equal(t, int64(35), all.TotalUnits)
	assert.Equal(t, "Central", all.Lines[0].WarehouseName)

	north, err := uc.StockReport(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "Reporte de stock - Norte", north.Title)
	assert.Len(t, north.Lines, 2)

	_, err = uc.StockReport(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type fakeExporter struct{ lines int }

func (f *fakeExporter) ContentType() string { return "text/plain" }
func (f *fakeExporter) Extension() string   { return "txt" }
func (f *fakeExporter) Export(w io.Writer, r *dto.StockReport) error {
	f.lines = len(r.Lines)
	_, err := io.WriteString(w, r.Title)
	return err
}

func TestExport(t *testing.T) {
	exp := &fakeExporter{}
	var buf bytes.Buffer
	require.NoError(t, newUseCase(seed(t)).Export(context.Background(), "", exp, &buf))
	assert.Equal(t, 4, exp.lines)
	assert.Equal(t, "Reporte de stock", buf.String())
}
