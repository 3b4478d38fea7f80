package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	RoleUC      *usecase.RoleUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ItemUC      *usecase.ItemUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	Ledger      *inventory.StockLedger
	TransferUC  *transfer.UseCase
	ReportsUC   *reports.UseCase
	XLSX        reports.Exporter
	PDF         reports.Exporter
	Profiles    ProfileLookup
	JWTSecret   string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, "ok", fiber.Map{"status": "up"})
	})

	api := app.Group("/api/v1")

	admin := RequireRole(entity.RoleAdmin)
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	everyone := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleStaff)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token y perfil)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Profiles))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/change-password", authHandler.ChangePassword)

	// Users y roles
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", managers, userHandler.List)
	users.Post("/", admin, userHandler.Create)
	users.Get("/:id", managers, userHandler.GetByID)
	users.Put("/:id", admin, userHandler.Update)
	users.Delete("/:id", admin, userHandler.Delete)

	roleHandler := NewRoleHandler(deps.RoleUC)
	roles := protected.Group("/roles")
	roles.Get("/", roleHandler.List)
	roles.Post("/", admin, roleHandler.Create)

	// Catálogo
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", managers, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", managers, warehouseHandler.Update)
	warehouses.Delete("/:id", admin, warehouseHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", managers, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", managers, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", managers, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", managers, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	itemHandler := NewItemHandler(deps.ItemUC, deps.ReportsUC)
	items := protected.Group("/items")
	items.Get("/low-stock", managers, itemHandler.LowStock)
	items.Get("/", itemHandler.List)
	items.Post("/", managers, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", managers, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Delete)

	// Stock: toda mutación pasa por el libro
	stockHandler := NewStockHandler(deps.Ledger)
	stock := protected.Group("/stock")
	stock.Get("/levels", stockHandler.ListLevels)
	stock.Post("/levels", managers, stockHandler.CreateLevel)
	stock.Get("/levels/:id", stockHandler.GetLevel)
	stock.Put("/levels/:id", managers, stockHandler.AdjustLevel)
	stock.Get("/transactions", managers, stockHandler.ListTransactions)
	stock.Post("/transactions/in", everyone, stockHandler.StockIn)
	stock.Post("/transactions/out", everyone, stockHandler.StockOut)
	stock.Post("/transactions/adjust", managers, stockHandler.StockAdjust)
	stock.Get("/transactions/:id", managers, stockHandler.GetTransaction)

	// Transferencias
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfer-requests")
	transfers.Get("/", transferHandler.List)
	transfers.Post("/", everyone, transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id", everyone, transferHandler.Update)
	transfers.Post("/:id/approve", managers, transferHandler.Approve)
	transfers.Post("/:id/reject", managers, transferHandler.Reject)
	transfers.Post("/:id/complete", everyone, transferHandler.Complete)
	transfers.Post("/:id/cancel", everyone, transferHandler.Cancel)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportsUC, deps.XLSX, deps.PDF)
	rep := protected.Group("/reports", managers)
	rep.Get("/dashboard", reportHandler.Dashboard)
	rep.Get("/inventory-summary", reportHandler.InventorySummary)
	rep.Get("/stock.xlsx", reportHandler.StockXLSX)
	rep.Get("/stock.pdf", reportHandler.StockPDF)
}
