package product

import (
	"context"

	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// ListFilter narrows product listings.
type ListFilter struct {
	Kind       *Kind
	CategoryID *id.ID
	Search     string
	Limit      int
	Offset     int
}

// Repository defines persistence for products.
//
// The write-path helpers (UpdateCostBasis, SetSellingPrice) are single
// UPDATE statements so engines can call them inside their transaction
// without re-reading the row.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	List(ctx context.Context, filter ListFilter) ([]*Product, error)

	// UpdateCostBasis sets the standing cost to the most recent
	// purchase price (last-cost basis).
	UpdateCostBasis(ctx context.Context, productID id.ID, costUSD, costNGN types.Money) error

	// SetSellingPrice sets the selling price and the override flag.
	SetSellingPrice(ctx context.Context, productID id.ID, price types.Money, overridden bool) error

	// LowStock lists products at or below their reorder level.
	LowStock(ctx context.Context) ([]*Product, error)
}
