// Package settings provides operator-maintained configuration: the
// profit margin table and the effective-dated exchange rate series.
package settings

import (
	"context"
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// DefaultMarginKey is the fallback entry in the margin table.
const DefaultMarginKey = "default"

// MarginTable maps a category id (or DefaultMarginKey) to a margin
// percentage. Resolution precedence: category-specific entry, else default.
type MarginTable map[string]types.Money

// Resolve returns the margin percentage for a category.
func (t MarginTable) Resolve(categoryID string) (types.Money, error) {
	if pct, ok := t[categoryID]; ok {
		return pct, nil
	}
	if pct, ok := t[DefaultMarginKey]; ok {
		return pct, nil
	}
	return types.Zero(), apperror.NewValidation("no margin configured for category and no default set").
		WithDetail("category_id", categoryID)
}

// Validate rejects negative percentages.
func (t MarginTable) Validate(ctx context.Context) error {
	for key, pct := range t {
		if pct.IsNegative() {
			return apperror.NewValidation("margin percent cannot be negative").
				WithDetail("key", key).
				WithDetail("margin_percent", pct.String())
		}
	}
	return nil
}

// ExchangeRate is one row of the append-only USD/NGN rate series.
// A rate is valid from its effective date until superseded by a later one.
type ExchangeRate struct {
	ID            id.ID       `db:"id" json:"id"`
	Rate          types.Money `db:"rate" json:"rate"`
	EffectiveDate time.Time   `db:"effective_date" json:"effectiveDate"`
	Note          string      `db:"note" json:"note,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
}

// NewExchangeRate creates a rate row.
func NewExchangeRate(rate types.Money, effectiveDate time.Time, note string) *ExchangeRate {
	return &ExchangeRate{
		ID:            id.New(),
		Rate:          rate,
		EffectiveDate: effectiveDate,
		Note:          note,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (r *ExchangeRate) Validate(ctx context.Context) error {
	if !r.Rate.IsPositive() {
		return apperror.NewValidation("exchange rate must be positive").
			WithDetail("rate", r.Rate.String())
	}
	if r.EffectiveDate.IsZero() {
		return apperror.NewValidation("effective date is required").
			WithDetail("field", "effectiveDate")
	}
	return nil
}
