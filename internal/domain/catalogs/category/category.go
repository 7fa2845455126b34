// Package category provides the product category catalog. Categories
// key the margin table: the recommended selling price of a production
// order is driven by the target product's category margin.
package category

import (
	"context"
	"fmt"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/tx"
)

// Category is one product grouping.
type Category struct {
	entity.BaseDocument

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// New creates a category.
func New(name, description string) *Category {
	return &Category{
		BaseDocument: entity.NewBaseDocument(),
		Name:         name,
		Description:  description,
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines persistence for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]*Category, error)
}

// Service provides catalog operations for categories.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and persists a category.
func (s *Service) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// Update validates and saves an existing category.
func (s *Service) Update(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.Touch()
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// List retrieves all categories.
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}
