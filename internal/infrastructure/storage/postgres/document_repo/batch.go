// Package document_repo provides PostgreSQL implementations for
// document repositories (purchase batches, productions, sales).
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/documents/batch"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const (
	batchesTable    = "batches"
	batchItemsTable = "batch_items"
)

// Compile-time check.
var _ batch.Repository = (*BatchRepo)(nil)

// BatchRepo implements batch.Repository.
type BatchRepo struct {
	*postgres.BaseRepo[*batch.Batch]
}

// NewBatchRepo creates a new purchase batch repository.
func NewBatchRepo(txManager *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		BaseRepo: postgres.NewBaseRepo(
			txManager,
			batchesTable,
			postgres.ExtractDBColumns[batch.Batch](),
			func() *batch.Batch { return &batch.Batch{} },
		),
	}
}

// SaveItems wholesale-replaces the item rows for a batch.
func (r *BatchRepo) SaveItems(ctx context.Context, batchID id.ID, items []batch.Item) error {
	querier := r.Querier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete(batchItemsTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().Insert(batchItemsTable).Columns(
		"line_id", "batch_id", "line_no",
		"product_id", "quantity", "unit_cost_usd", "line_total_usd",
	)
	for _, item := range items {
		q = q.Values(
			item.LineID, batchID, item.LineNo,
			item.ProductID, item.Quantity, item.UnitCostUSD, item.LineTotalUSD,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// GetItems loads the item rows for a batch in line order.
func (r *BatchRepo) GetItems(ctx context.Context, batchID id.ID) ([]batch.Item, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity", "unit_cost_usd", "line_total_usd").
		From(batchItemsTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []batch.Item
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

// List retrieves batches with filtering, newest-first.
func (r *BatchRepo) List(ctx context.Context, filter batch.ListFilter) ([]*batch.Batch, error) {
	q := r.BaseSelect().OrderBy("date DESC", "created_at DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*batch.Batch
	if err := pgxscan.Select(ctx, r.Querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return docs, nil
}
