package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/export"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/identity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

const (
	whA    = "wh-a"
	whB    = "wh-b"
	itemID = "item-1"
)

// testServer app Fiber completa sobre el store en memoria, con un perfil por rol.
type testServer struct {
	app    *fiber.App
	store  *memory.Store
	tokens map[string]string
}

// envelope respuesta genérica de la API.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details string          `json:"details"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()

	ledger := inventory.NewStockLedger(store.UnitOfWork(), store.Items(), store.Warehouses(),
		store.StockLevels(), store.Transactions(), log, nil)
	idp := identity.NewLocalProvider(store.Credentials(), identity.LocalConfig{Secret: testJWTSecret, Issuer: testIssuer})
	reportsUC := reports.NewUseCase(store.Reports(), store.Warehouses())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(idp, store.Users(), entity.RoleStaff, log),
		UserUC:      usecase.NewUserUseCase(store.Users(), store.Roles(), idp),
		RoleUC:      usecase.NewRoleUseCase(store.Roles()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
		ItemUC:      usecase.NewItemUseCase(store.Items(), store.Categories(), store.Suppliers()),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories()),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers()),
		Ledger:      ledger,
		TransferUC:  transfer.NewUseCase(store.Transfers(), store.Items(), store.Warehouses(), ledger, log, nil),
		ReportsUC:   reportsUC,
		XLSX:        export.NewXLSXExporter(),
		PDF:         export.NewPDFExporter("test"),
		Profiles:    store.Users(),
		JWTSecret:   testJWTSecret,
	})

	s := &testServer{app: app, store: store, tokens: map[string]string{}}
	for _, role := range []string{entity.RoleAdmin, entity.RoleManager, entity.RoleStaff} {
		id := seedProfile(t, store, "u-"+role, role, true)
		s.tokens[role] = bearer(t, id)
	}
	s.seedCatalog(t)
	return s
}

func (s *testServer) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{whA, whB} {
		require.NoError(t, s.store.Warehouses().Create(ctx, &entity.Warehouse{
			ID: id, Name: "Bodega " + id, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}))
	}
	require.NoError(t, s.store.Items().Create(ctx, &entity.Item{
		ID: itemID, SKU: "TOR-001", Name: "Tornillo", UnitPrice: decimal.NewFromInt(2),
		ReorderLevel: 5, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
}

// do lanza la petición como role ("" = sin token) y decodifica el sobre.
func (s *testServer) do(t *testing.T, method, path, role string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", s.tokens[role])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}
