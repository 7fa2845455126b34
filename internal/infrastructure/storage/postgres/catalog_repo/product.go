// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories (products, categories, suppliers, customers).
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
//
// quantity_in_stock is owned by the stock ledger: catalog updates never
// write it, and the cost/price helpers are single UPDATE statements so
// engines can call them mid-transaction.
type ProductRepo struct {
	*postgres.BaseRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseRepo: postgres.NewBaseRepo(
			txManager,
			productsTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// Update saves catalog fields with an optimistic version check,
// leaving the ledger-owned quantity column untouched.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.Builder().
		Update(productsTable).
		Set("code", p.Code).
		Set("name", p.Name).
		Set("kind", p.Kind).
		Set("category_id", p.CategoryID).
		Set("cost_price_usd", p.CostPriceUSD).
		Set("cost_price_ngn", p.CostPriceNGN).
		Set("selling_price", p.SellingPrice).
		Set("price_overridden", p.PriceOverridden).
		Set("reorder_level", p.ReorderLevel).
		Set("version", p.Version).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(productsTable, p.ID)
	}

	return nil
}

// UpdateCostBasis sets the standing cost to the most recent purchase
// price (last-cost basis). Single UPDATE, no version bump: cost basis
// is engine-owned, like the quantity.
func (r *ProductRepo) UpdateCostBasis(ctx context.Context, productID id.ID, costUSD, costNGN types.Money) error {
	q := r.Builder().
		Update(productsTable).
		Set("cost_price_usd", costUSD).
		Set("cost_price_ngn", costNGN).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update cost basis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// SetSellingPrice sets the selling price and the override flag.
func (r *ProductRepo) SetSellingPrice(ctx context.Context, productID id.ID, price types.Money, overridden bool) error {
	q := r.Builder().
		Update(productsTable).
		Set("selling_price", price).
		Set("price_overridden", overridden).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set selling price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// List retrieves products with filtering.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	q := r.BaseSelect().OrderBy("name")

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
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

	var products []*product.Product
	if err := pgxscan.Select(ctx, r.Querier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// LowStock lists products at or below their reorder level.
func (r *ProductRepo) LowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.BaseSelect().
		Where(squirrel.Gt{"reorder_level": 0}).
		Where(squirrel.Expr("quantity_in_stock <= reorder_level")).
		OrderBy("quantity_in_stock")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	if err := pgxscan.Select(ctx, r.Querier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return products, nil
}
