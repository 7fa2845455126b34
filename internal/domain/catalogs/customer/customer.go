// Package customer provides the customer catalog (sale counterparties).
package customer

import (
	"context"
	"fmt"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/tx"
	"makerbooks/internal/core/types"
)

// Customer is one sale counterparty. TotalPurchases is a running
// lifetime-spend total: every completed sale adds its total, and the
// accumulator is never automatically decremented.
type Customer struct {
	entity.BaseDocument

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone,omitempty"`
	Email string `db:"email" json:"email,omitempty"`

	TotalPurchases types.Money `db:"total_purchases" json:"totalPurchases"`
}

// New creates a customer.
func New(name string) *Customer {
	return &Customer{
		BaseDocument: entity.NewBaseDocument(),
		Name:         name,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines persistence for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]*Customer, error)

	// IncrementTotalPurchases adds amount to the lifetime-spend total
	// as a single UPDATE so the sale engine can call it inside its
	// transaction.
	IncrementTotalPurchases(ctx context.Context, customerID id.ID, amount types.Money) error
}

// Service provides catalog operations for customers.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and persists a customer.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// Update validates and saves an existing customer. TotalPurchases is
// engine-owned and not editable here.
func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.Touch()
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// List retrieves all customers.
func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}
