package settings

import (
	"context"
	"fmt"
	"time"

	"makerbooks/internal/core/types"
	"makerbooks/pkg/logger"
)

// Service provides business operations for settings.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Margins loads the margin table.
func (s *Service) Margins(ctx context.Context) (MarginTable, error) {
	return s.repo.GetMarginTable(ctx)
}

// SaveMargins validates and replaces the margin table.
func (s *Service) SaveMargins(ctx context.Context, table MarginTable) error {
	if err := table.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.SaveMarginTable(ctx, table); err != nil {
		return fmt.Errorf("save margin table: %w", err)
	}

	logger.Info(ctx, "margin table updated", "entries", len(table))
	return nil
}

// ResolveMargin resolves the margin percentage for a category.
func (s *Service) ResolveMargin(ctx context.Context, categoryID string) (types.Money, error) {
	table, err := s.repo.GetMarginTable(ctx)
	if err != nil {
		return types.Zero(), fmt.Errorf("load margin table: %w", err)
	}
	return table.Resolve(categoryID)
}

// RecordRate appends a rate to the series.
func (s *Service) RecordRate(ctx context.Context, rate types.Money, effectiveDate time.Time, note string) (*ExchangeRate, error) {
	row := NewExchangeRate(rate, effectiveDate, note)
	if err := row.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.AddRate(ctx, row); err != nil {
		return nil, fmt.Errorf("add rate: %w", err)
	}

	logger.Info(ctx, "exchange rate recorded",
		"rate", row.Rate,
		"effective_date", row.EffectiveDate.Format("2006-01-02"))
	return row, nil
}

// CurrentRate returns the rate in force on the reference date.
// An empty series is an error - callers must then supply an explicit
// rate; an implicit default would silently corrupt cost basis.
func (s *Service) CurrentRate(ctx context.Context, ref time.Time) (types.Money, error) {
	row, err := s.repo.LatestRateOn(ctx, ref)
	if err != nil {
		return types.Zero(), err
	}
	return row.Rate, nil
}

// ListRates returns the series newest-first.
func (s *Service) ListRates(ctx context.Context, limit, offset int) ([]ExchangeRate, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRates(ctx, limit, offset)
}
