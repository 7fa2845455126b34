// Package stock_repo provides the PostgreSQL implementation of the
// stock ledger repository.
package stock_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/stock"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const (
	productsTable       = "products"
	stockMovementsTable = "stock_movements"
)

// Compile-time check.
var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository against the products quantity
// column and the stock_movements history table.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AdjustQuantity applies the delta with the non-negativity guard in the
// same statement. The row lock taken by UPDATE serializes concurrent
// adjustments on the product; the guard in the WHERE clause decides
// inside that critical section, so no read-then-write window exists.
func (r *StockRepo) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var newQty int64
	err := querier.QueryRow(ctx, `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + $2,
		    updated_at = NOW()
		WHERE id = $1 AND quantity_in_stock + $2 >= 0
		RETURNING quantity_in_stock
	`, productID, delta).Scan(&newQty)
	if err == nil {
		return newQty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}

	// Guard refused: distinguish a missing product from short stock.
	var available int64
	err = querier.QueryRow(ctx,
		`SELECT quantity_in_stock FROM products WHERE id = $1`,
		productID,
	).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound(productsTable, productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("read quantity: %w", err)
	}

	return 0, apperror.NewInsufficientStock(productID.String(), -delta, available)
}

// AppendMovement records one history row.
func (r *StockRepo) AppendMovement(ctx context.Context, movement entity.StockMovement) error {
	q := r.builder.Insert(stockMovementsTable).Columns(
		"line_id", "recorder_id", "recorder_type",
		"product_id", "direction", "quantity", "created_at",
	).Values(
		movement.LineID, movement.RecorderID, movement.RecorderType,
		movement.ProductID, movement.Direction, movement.Quantity, movement.CreatedAt,
	)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// Quantity returns the current quantity for a product.
func (r *StockRepo) Quantity(ctx context.Context, productID id.ID) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var qty int64
	err := querier.QueryRow(ctx,
		`SELECT quantity_in_stock FROM products WHERE id = $1`,
		productID,
	).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound(productsTable, productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("read quantity: %w", err)
	}

	return qty, nil
}

// MovementsByProduct returns history newest-first.
func (r *StockRepo) MovementsByProduct(ctx context.Context, productID id.ID, limit, offset int) ([]entity.StockMovement, error) {
	q := r.builder.
		Select("line_id", "recorder_id", "recorder_type", "product_id", "direction", "quantity", "created_at").
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return movements, nil
}
