package sale

import (
	"context"
	"time"

	"makerbooks/internal/core/id"
)

// ListFilter narrows sale listings.
type ListFilter struct {
	CustomerID *id.ID
	Channel    *Channel
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Repository defines persistence for sales. Sales are write-once:
// there is no update or delete.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	SaveItems(ctx context.Context, saleID id.ID, items []Item) error
	GetItems(ctx context.Context, saleID id.ID) ([]Item, error)

	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}
