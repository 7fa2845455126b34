package settings

import (
	"context"
	"time"
)

// Repository defines persistence for margins and exchange rates.
type Repository interface {
	// GetMarginTable loads the profit_margins settings record.
	// An absent record is returned as an empty table, not an error.
	GetMarginTable(ctx context.Context) (MarginTable, error)

	// SaveMarginTable replaces the profit_margins settings record.
	SaveMarginTable(ctx context.Context, table MarginTable) error

	// AddRate appends a rate row. The series is append-only.
	AddRate(ctx context.Context, rate *ExchangeRate) error

	// LatestRateOn returns the rate row with the latest effective_date
	// not after ref, or a NOT_FOUND error when the series is empty.
	LatestRateOn(ctx context.Context, ref time.Time) (*ExchangeRate, error)

	// ListRates returns the series newest-first.
	ListRates(ctx context.Context, limit, offset int) ([]ExchangeRate, error)
}
