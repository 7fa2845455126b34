package stock

import (
	"context"
	"fmt"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/pkg/logger"
)

// Recorder identifies the document responsible for an adjustment.
type Recorder struct {
	ID   id.ID
	Type string
}

// Ledger is the authoritative per-product quantity counter.
//
// Adjust is the only way engines change quantity_in_stock. The
// non-negativity guard lives in the storage layer, so two concurrent
// writers on the same product serialize there; the ledger itself never
// computes "new = old + delta" from an earlier read.
type Ledger struct {
	repo Repository
}

// NewLedger creates a new stock ledger.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Adjust applies a signed delta to a product's stock and appends the
// movement history row. Call within the owning engine's transaction so
// the adjustment rolls back with the rest of the workflow.
func (l *Ledger) Adjust(ctx context.Context, productID id.ID, delta int64, rec Recorder) error {
	if delta == 0 {
		return apperror.NewValidation("adjustment delta cannot be zero").
			WithDetail("product_id", productID.String())
	}
	if id.IsNil(rec.ID) || rec.Type == "" {
		return apperror.NewValidation("adjustment recorder is required").
			WithDetail("product_id", productID.String())
	}

	newQty, err := l.repo.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		return err
	}

	movement := entity.NewStockMovement(rec.ID, rec.Type, productID, delta)
	if err := l.repo.AppendMovement(ctx, movement); err != nil {
		return fmt.Errorf("append movement: %w", err)
	}

	logger.Debug(ctx, "stock adjusted",
		"product_id", productID,
		"delta", delta,
		"quantity", newQty,
		"recorder_type", rec.Type,
		"recorder_id", rec.ID,
	)

	return nil
}

// Availability returns the current quantity for a product.
func (l *Ledger) Availability(ctx context.Context, productID id.ID) (int64, error) {
	return l.repo.Quantity(ctx, productID)
}

// Movements returns the history for a product, newest-first.
func (l *Ledger) Movements(ctx context.Context, productID id.ID, limit, offset int) ([]entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.repo.MovementsByProduct(ctx, productID, limit, offset)
}
