// Package stock provides the authoritative per-product quantity ledger.
package stock

import (
	"context"

	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
)

// Repository defines storage operations for the ledger.
type Repository interface {
	// AdjustQuantity applies quantity_in_stock += delta iff the result
	// stays non-negative, returning the new quantity.
	//
	// The guard and the write MUST be one atomic statement against the
	// store (conditional UPDATE); implementations must never read the
	// quantity first and write a computed value. A guard failure is an
	// INSUFFICIENT_STOCK error, an unknown product a NOT_FOUND error.
	AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error)

	// AppendMovement records one history row for an applied adjustment.
	AppendMovement(ctx context.Context, movement entity.StockMovement) error

	// Quantity returns the current quantity for a product.
	Quantity(ctx context.Context, productID id.ID) (int64, error)

	// MovementsByProduct returns history newest-first.
	MovementsByProduct(ctx context.Context, productID id.ID, limit, offset int) ([]entity.StockMovement, error)
}
