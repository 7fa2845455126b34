package product

import (
	"context"
	"fmt"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/tx"
	"makerbooks/internal/core/types"
	"makerbooks/pkg/logger"
)

// Service provides catalog operations for products. Stock quantity is
// owned by the stock ledger; this service never touches it directly.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code, "kind", p.Kind)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update validates and saves catalog fields of an existing product.
// QuantityInStock changes go through the ledger, never through here.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.Touch()
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// OverrideSellingPrice sets a manual selling price. Once overridden,
// production completion no longer rewrites the price.
func (s *Service) OverrideSellingPrice(ctx context.Context, productID id.ID, price types.Money) error {
	if price.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("product_id", productID.String())
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetSellingPrice(ctx, productID, price, true)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "selling price overridden", "product_id", productID, "price", price)
	return nil
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// LowStock lists products at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.LowStock(ctx)
}
