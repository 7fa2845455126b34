package sale

import (
	"context"
	"fmt"
	"time"

	"makerbooks/internal/core/id"
	"makerbooks/internal/core/numerator"
	"makerbooks/internal/core/tx"
	"makerbooks/internal/domain/audit"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/stock"
	"makerbooks/pkg/logger"
)

// numeratorStrategy for sales. Customer-facing accounting document, so
// numbers must be gapless.
const numeratorStrategy = numerator.StrategyStrict

// Service provides business operations for sales.
//
// Create is all-or-nothing: the sale record, every stock deduction and
// the customer spend increment commit as one transaction. A short line
// anywhere leaves no sale, no stock change and no customer change.
type Service struct {
	repo      Repository
	customers customer.Repository
	ledger    *stock.Ledger
	numerator numerator.Generator
	txManager tx.Manager
	trail     audit.Trail
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	customers customer.Repository,
	ledger *stock.Ledger,
	gen numerator.Generator,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		ledger:    ledger,
		numerator: gen,
		txManager: txManager,
		trail:     trail,
	}
}

// Create validates and persists a sale, deducting stock per line and
// accumulating the customer's lifetime spend.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *doc.CustomerID); err != nil {
			return err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// The number is drawn inside the transaction so a failed sale
		// rolls the sequence back and leaves no gap.
		if doc.Number == "" {
			cfg := numerator.DefaultConfig("SALE")
			number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numeratorStrategy}, time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		rec := stock.Recorder{ID: doc.ID, Type: EntityType}
		for _, item := range doc.Items {
			if err := s.ledger.Adjust(ctx, item.ProductID, -item.Quantity, rec); err != nil {
				return err
			}
		}

		if doc.CustomerID != nil {
			if err := s.customers.IncrementTotalPurchases(ctx, *doc.CustomerID, doc.Total); err != nil {
				return fmt.Errorf("increment customer purchases: %w", err)
			}
		}

		return s.trail.Record(ctx, EntityType, doc.ID, audit.ActionCreate, map[string]any{
			"number":   doc.Number,
			"subtotal": doc.Subtotal,
			"discount": doc.Discount,
			"total":    doc.Total,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale created",
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.Total,
		"channel", doc.Channel)

	return nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
