package production

import (
	"context"

	"makerbooks/internal/core/id"
)

// ListFilter narrows production order listings.
type ListFilter struct {
	Status    *Status
	ProductID *id.ID
	MakerID   *id.ID
	Limit     int
	Offset    int
}

// Repository defines persistence for production orders.
type Repository interface {
	Create(ctx context.Context, p *Production) error
	GetByID(ctx context.Context, productionID id.ID) (*Production, error)

	// Update saves header fields with an optimistic version check.
	// Materials are write-once and have no replace operation.
	Update(ctx context.Context, p *Production) error

	SaveMaterials(ctx context.Context, productionID id.ID, materials []Material) error
	GetMaterials(ctx context.Context, productionID id.ID) ([]Material, error)

	List(ctx context.Context, filter ListFilter) ([]*Production, error)
}
