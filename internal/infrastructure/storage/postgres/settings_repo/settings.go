// Package settings_repo provides the PostgreSQL implementation of the
// settings repository (margin table and exchange rate series).
package settings_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/domain/settings"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const (
	settingsTable      = "settings"
	exchangeRatesTable = "exchange_rates"

	// marginTableKey is the settings row holding the margin table as JSONB.
	marginTableKey = "profit_margins"
)

// Compile-time check.
var _ settings.Repository = (*SettingsRepo)(nil)

// SettingsRepo implements settings.Repository. The margin table lives as
// a single JSONB settings row; exchange rates are an append-only table.
type SettingsRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetMarginTable loads the margin table. A missing row is an empty table.
func (r *SettingsRepo) GetMarginTable(ctx context.Context) (settings.MarginTable, error) {
	querier := r.txManager.GetQuerier(ctx)

	var raw []byte
	err := querier.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`,
		marginTableKey,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings.MarginTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read margin table: %w", err)
	}

	var table settings.MarginTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("unmarshal margin table: %w", err)
	}
	return table, nil
}

// SaveMarginTable replaces the margin table row.
func (r *SettingsRepo) SaveMarginTable(ctx context.Context, table settings.MarginTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal margin table: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, marginTableKey, raw)
	if err != nil {
		return fmt.Errorf("save margin table: %w", err)
	}

	return nil
}

// AddRate appends one rate row to the series.
func (r *SettingsRepo) AddRate(ctx context.Context, rate *settings.ExchangeRate) error {
	q := r.builder.Insert(exchangeRatesTable).Columns(
		"id", "rate", "effective_date", "note", "created_at",
	).Values(
		rate.ID, rate.Rate, rate.EffectiveDate, rate.Note, rate.CreatedAt,
	)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert rate: %w", err)
	}

	return nil
}

// LatestRateOn returns the newest rate effective on or before ref.
func (r *SettingsRepo) LatestRateOn(ctx context.Context, ref time.Time) (*settings.ExchangeRate, error) {
	q := r.builder.
		Select("id", "rate", "effective_date", "note", "created_at").
		From(exchangeRatesTable).
		Where(squirrel.LtOrEq{"effective_date": ref}).
		OrderBy("effective_date DESC", "created_at DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rate settings.ExchangeRate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rate, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound(exchangeRatesTable, ref.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("select rate: %w", err)
	}
	return &rate, nil
}

// ListRates returns the series newest-first.
func (r *SettingsRepo) ListRates(ctx context.Context, limit, offset int) ([]settings.ExchangeRate, error) {
	q := r.builder.
		Select("id", "rate", "effective_date", "note", "created_at").
		From(exchangeRatesTable).
		OrderBy("effective_date DESC", "created_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rates []settings.ExchangeRate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rates, sql, args...); err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return rates, nil
}
