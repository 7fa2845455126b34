// Package main provides a CLI tool for seeding the database with
// initial data: demo categories and products, a default margin table
// and an opening exchange rate.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/catalogs/category"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/catalogs/supplier"
	"makerbooks/internal/domain/settings"
	"makerbooks/internal/infrastructure/storage/postgres"
	"makerbooks/internal/infrastructure/storage/postgres/catalog_repo"
	"makerbooks/internal/infrastructure/storage/postgres/settings_repo"
	"makerbooks/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	settingsService := settings.NewService(settings_repo.NewSettingsRepo(txManager))
	if err := seedSettings(ctx, settingsService, log); err != nil {
		log.Fatalw("failed to seed settings", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedSettings installs a default margin table and an opening exchange
// rate when none exist yet. Existing values are left alone.
func seedSettings(ctx context.Context, svc *settings.Service, log *logger.Logger) error {
	table, err := svc.Margins(ctx)
	if err != nil {
		return fmt.Errorf("load margins: %w", err)
	}
	if len(table) == 0 {
		table = settings.MarginTable{
			settings.DefaultMarginKey: types.MustMoney("50"),
		}
		if err := svc.SaveMargins(ctx, table); err != nil {
			return fmt.Errorf("save margins: %w", err)
		}
		log.Info("default margin table installed")
	}

	if _, err := svc.CurrentRate(ctx, time.Now()); err != nil {
		rate := os.Getenv("OPENING_EXCHANGE_RATE")
		if rate == "" {
			rate = "1500"
		}
		parsed, err := types.NewMoneyFromString(rate)
		if err != nil {
			return fmt.Errorf("parse opening rate: %w", err)
		}
		if _, err := svc.RecordRate(ctx, parsed, time.Now(), "opening rate"); err != nil {
			return fmt.Errorf("record opening rate: %w", err)
		}
		log.Infow("opening exchange rate recorded", "rate", rate)
	}

	return nil
}

// seedDemoData creates a small demo dataset: two categories, a raw
// material, a finished good, and one supplier and customer each.
func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	categoryService := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager)
	customerService := customer.NewService(catalog_repo.NewCustomerRepo(txManager), txManager)

	existing, err := categoryService.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	materials := category.New("Materials", "Purchased raw materials")
	if err := categoryService.Create(ctx, materials); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	bags := category.New("Bags", "Finished handmade bags")
	if err := categoryService.Create(ctx, bags); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	leather := product.New("MAT-001", "Leather sheet", product.KindRawMaterial, materials.ID)
	leather.ReorderLevel = 10
	if err := productService.Create(ctx, leather); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	tote := product.New("BAG-001", "Leather tote", product.KindFinishedGood, bags.ID)
	if err := productService.Create(ctx, tote); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	sup := supplier.New("Lagos Leather Works")
	sup.Phone = "+234 800 000 0001"
	if err := supplierService.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	cust := customer.New("Demo Customer")
	cust.Phone = "+234 800 000 0002"
	if err := customerService.Create(ctx, cust); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	log.Info("demo data created")
	return nil
}
