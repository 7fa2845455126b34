// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/numerator"
	"makerbooks/internal/domain/catalogs/category"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/catalogs/supplier"
	"makerbooks/internal/domain/documents/batch"
	"makerbooks/internal/domain/documents/production"
	"makerbooks/internal/domain/documents/sale"
	"makerbooks/internal/domain/settings"
	"makerbooks/internal/domain/stock"
	"makerbooks/internal/infrastructure/http/v1/handlers"
	"makerbooks/internal/infrastructure/http/v1/middleware"
	"makerbooks/internal/infrastructure/storage/postgres"
	"makerbooks/internal/infrastructure/storage/postgres/catalog_repo"
	"makerbooks/internal/infrastructure/storage/postgres/document_repo"
	"makerbooks/internal/infrastructure/storage/postgres/settings_repo"
	"makerbooks/internal/infrastructure/storage/postgres/stock_repo"
	"makerbooks/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// TxManager runs every mutating operation in a transaction.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// Numerator generates document numbers.
	Numerator numerator.Generator

	// AuditStore records and serves the audit trail.
	AuditStore *postgres.AuditStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// Shared repositories and engines
	stockRepo := stock_repo.NewStockRepo(cfg.TxManager)
	ledger := stock.NewLedger(stockRepo)

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	customerRepo := catalog_repo.NewCustomerRepo(cfg.TxManager)

	settingsRepo := settings_repo.NewSettingsRepo(cfg.TxManager)
	settingsService := settings.NewService(settingsRepo)

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// --- CATALOGS ---
		catalogs := v1.Group("/catalog")
		{
			productService := product.NewService(productRepo, cfg.TxManager)
			handlers.NewProductHandler(baseHandler, productService).
				RegisterRoutes(catalogs.Group("/products"))

			categoryService := category.NewService(categoryRepo, cfg.TxManager)
			handlers.NewCategoryHandler(baseHandler, categoryService).
				RegisterRoutes(catalogs.Group("/categories"))

			supplierService := supplier.NewService(supplierRepo, cfg.TxManager)
			handlers.NewSupplierHandler(baseHandler, supplierService).
				RegisterRoutes(catalogs.Group("/suppliers"))

			customerService := customer.NewService(customerRepo, cfg.TxManager)
			handlers.NewCustomerHandler(baseHandler, customerService).
				RegisterRoutes(catalogs.Group("/customers"))
		}

		// --- DOCUMENTS ---
		docs := v1.Group("/documents")
		{
			batchRepo := document_repo.NewBatchRepo(cfg.TxManager)
			batchService := batch.NewService(
				batchRepo, productRepo, ledger, settingsService,
				cfg.Numerator, cfg.TxManager, cfg.AuditStore,
			)
			handlers.NewBatchHandler(baseHandler, batchService).
				RegisterRoutes(docs.Group("/batches"))

			productionRepo := document_repo.NewProductionRepo(cfg.TxManager)
			productionService := production.NewService(
				productionRepo, productRepo, ledger, settingsService,
				cfg.Numerator, cfg.TxManager, cfg.AuditStore,
			)
			handlers.NewProductionHandler(baseHandler, productionService).
				RegisterRoutes(docs.Group("/productions"))

			saleRepo := document_repo.NewSaleRepo(cfg.TxManager)
			saleService := sale.NewService(
				saleRepo, customerRepo, ledger,
				cfg.Numerator, cfg.TxManager, cfg.AuditStore,
			)
			handlers.NewSaleHandler(baseHandler, saleService).
				RegisterRoutes(docs.Group("/sales"))
		}

		// --- STOCK ---
		handlers.NewStockHandler(baseHandler, ledger).
			RegisterRoutes(v1.Group("/stock"))

		// --- SETTINGS ---
		handlers.NewSettingsHandler(baseHandler, settingsService).
			RegisterRoutes(v1.Group("/settings"))

		// --- AUDIT ---
		handlers.NewAuditHandler(baseHandler, cfg.AuditStore).
			RegisterRoutes(v1.Group("/audit"))
	}

	return router
}
