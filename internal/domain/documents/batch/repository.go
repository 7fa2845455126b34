package batch

import (
	"context"
	"time"

	"makerbooks/internal/core/id"
)

// ListFilter narrows batch listings.
type ListFilter struct {
	Status     *Status
	SupplierID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Repository defines persistence for purchase batches.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// Update saves header fields with an optimistic version check.
	Update(ctx context.Context, b *Batch) error

	// SaveItems replaces the item rows for a batch.
	SaveItems(ctx context.Context, batchID id.ID, items []Item) error
	GetItems(ctx context.Context, batchID id.ID) ([]Item, error)

	Delete(ctx context.Context, batchID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Batch, error)
}
