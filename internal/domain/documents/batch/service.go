package batch

import (
	"context"
	"fmt"
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/numerator"
	"makerbooks/internal/core/tx"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/audit"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/stock"
	"makerbooks/pkg/logger"
)

// numeratorStrategy for purchase batches. Gaps are acceptable for
// internal documents, so the cached range strategy is used.
const numeratorStrategy = numerator.StrategyCached

// RateSource resolves the NGN-per-USD exchange rate in force on a date.
type RateSource interface {
	CurrentRate(ctx context.Context, ref time.Time) (types.Money, error)
}

// Service provides business operations for purchase batches.
//
// Receive is the stock-effecting operation: it runs in one transaction
// so the quantity credits, the last-cost updates and the status flip
// commit or roll back together.
type Service struct {
	repo      Repository
	products  product.Repository
	ledger    *stock.Ledger
	rates     RateSource
	numerator numerator.Generator
	txManager tx.Manager
	trail     audit.Trail
}

// NewService creates a new purchase batch service.
func NewService(
	repo Repository,
	products product.Repository,
	ledger *stock.Ledger,
	rates RateSource,
	gen numerator.Generator,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		rates:     rates,
		numerator: gen,
		txManager: txManager,
		trail:     trail,
	}
}

// CreateDraft creates a new draft batch. No stock effect.
func (s *Service) CreateDraft(ctx context.Context, b *Batch) error {
	b.Status = StatusDraft

	if err := b.Validate(ctx); err != nil {
		return err
	}

	if b.Number == "" {
		cfg := numerator.DefaultConfig("PO")
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		b.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		if err := s.repo.SaveItems(ctx, b.ID, b.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return s.trail.Record(ctx, EntityType, b.ID, audit.ActionCreate, map[string]any{
			"number":         b.Number,
			"supplier_id":    b.SupplierID,
			"total_cost_usd": b.TotalCostUSD,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "batch created", "id", b.ID, "number", b.Number)
	return nil
}

// UpdateDraft replaces header fields and items of a draft batch.
// The stored status decides editability, not the caller's copy.
func (s *Service) UpdateDraft(ctx context.Context, b *Batch) error {
	stored, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if err := stored.CanModify(); err != nil {
		return err
	}

	b.Status = StatusDraft
	if err := b.Validate(ctx); err != nil {
		return err
	}

	b.Touch()
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if err := s.repo.SaveItems(ctx, b.ID, b.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return s.trail.Record(ctx, EntityType, b.ID, audit.ActionUpdate, map[string]any{
			"total_cost_usd": b.TotalCostUSD,
		})
	})
}

// Receive applies a draft batch to stock and locks it.
//
// When rate is zero the rate series supplies the rate in force on the
// batch date; an empty series is an error, never a silent 1.0. Each
// item credits stock and resets the product's standing cost to this
// purchase price (last-cost basis).
func (s *Service) Receive(ctx context.Context, batchID id.ID, rate types.Money) (*Batch, error) {
	doc, err := s.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if doc.Status != StatusDraft {
		return nil, apperror.NewInvalidStateTransition(EntityType, batchID, string(doc.Status), string(StatusReceived))
	}

	if rate.IsNegative() {
		return nil, apperror.NewValidation("exchange rate cannot be negative").
			WithDetail("rate", rate.String())
	}
	if rate.IsZero() {
		rate, err = s.rates.CurrentRate(ctx, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("resolve exchange rate: %w", err)
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec := stock.Recorder{ID: doc.ID, Type: EntityType}
		for _, item := range doc.Items {
			if err := s.ledger.Adjust(ctx, item.ProductID, item.Quantity, rec); err != nil {
				return err
			}
			costNGN := item.UnitCostUSD.Mul(rate)
			if err := s.products.UpdateCostBasis(ctx, item.ProductID, item.UnitCostUSD, costNGN); err != nil {
				return fmt.Errorf("update cost basis: %w", err)
			}
		}

		doc.ExchangeRate = rate
		doc.TotalCostNGN = doc.TotalCostUSD.Mul(rate)
		doc.Status = StatusReceived
		doc.Touch()

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}

		return s.trail.Record(ctx, EntityType, doc.ID, audit.ActionReceive, map[string]any{
			"exchange_rate":  rate,
			"total_cost_usd": doc.TotalCostUSD,
			"total_cost_ngn": doc.TotalCostNGN,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch received",
		"id", doc.ID,
		"number", doc.Number,
		"rate", rate,
		"total_cost_ngn", doc.TotalCostNGN)

	return doc, nil
}

// Delete removes a draft batch. Received batches are immutable.
func (s *Service) Delete(ctx context.Context, batchID id.ID) error {
	doc, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, batchID); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}
		return s.trail.Record(ctx, EntityType, batchID, audit.ActionDelete, nil)
	})
}

// GetByID retrieves a batch with its items.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	doc, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves batches with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Batch, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
