package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/reports"
	"github.com/jhoicas/warehouse-api/internal/application/transfer"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/export"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/identity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("auth_provider", cfg.Auth.Provider).
		Bool("atomic_ledger", cfg.DB.AtomicLedger).
		Msg("iniciando aplicación")

	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	credentialRepo := postgres.NewCredentialRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Con DB_ATOMIC_LEDGER=false el nivel y la transacción se escriben por separado
	// y una falla entre ambos se reporta como inconsistencia del libro.
	var uow inventory.UnitOfWork = postgres.NewTxRunner(pool)
	if !cfg.DB.AtomicLedger {
		uow = postgres.NewDirectRunner(pool)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	var idp auth.IdentityProvider
	switch cfg.Auth.Provider {
	case config.AuthProviderGoTrue:
		idp = identity.NewGoTrueClient(cfg.Auth.GoTrueURL, cfg.Auth.GoTrueAPIKey)
	default:
		idp = identity.NewLocalProvider(credentialRepo, identity.LocalConfig{
			Secret:            cfg.JWT.Secret,
			Issuer:            cfg.JWT.Issuer,
			ExpMinutes:        cfg.JWT.Expiration,
			RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		})
	}

	ledger := inventory.NewStockLedger(uow, itemRepo, warehouseRepo, levelRepo, transactionRepo, log.Component("ledger"), recorder)
	transferUC := transfer.NewUseCase(transferRepo, itemRepo, warehouseRepo, ledger, log.Component("transfer"), recorder)
	authUC := auth.NewAuthUseCase(idp, userRepo, cfg.Auth.DefaultRole, log.Component("auth"))
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, idp)
	roleUC := usecase.NewRoleUseCase(roleRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, categoryRepo, supplierRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	reportsUC := reports.NewUseCase(reportRepo, warehouseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerPath,
			Path:     "docs",
			Title:    "Warehouse API",
		}))
	} else {
		log.Warn().Str("path", cfg.Docs.SwaggerPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		RoleUC:      roleUC,
		WarehouseUC: warehouseUC,
		ItemUC:      itemUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		Ledger:      ledger,
		TransferUC:  transferUC,
		ReportsUC:   reportsUC,
		XLSX:        export.NewXLSXExporter(),
		PDF:         export.NewPDFExporter(cfg.App.Name),
		Profiles:    userRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
