package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const customersTable = "customers"

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*postgres.BaseRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseRepo: postgres.NewBaseRepo(
			txManager,
			customersTable,
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// Update saves contact fields with an optimistic version check. The
// total_purchases accumulator is engine-owned and never written here.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	q := r.Builder().
		Update(customersTable).
		Set("name", c.Name).
		Set("phone", c.Phone).
		Set("email", c.Email).
		Set("version", c.Version).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Where(squirrel.Eq{"version": c.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(customersTable, c.ID)
	}

	return nil
}

// IncrementTotalPurchases adds amount to the lifetime-spend total as a
// single UPDATE, safe under concurrent sales.
func (r *CustomerRepo) IncrementTotalPurchases(ctx context.Context, customerID id.ID, amount types.Money) error {
	q := r.Builder().
		Update(customersTable).
		Set("total_purchases", squirrel.Expr("total_purchases + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("increment total purchases: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(customersTable, customerID.String())
	}

	return nil
}

// List retrieves all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]*customer.Customer, error) {
	sql, args, err := r.BaseSelect().OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var customers []*customer.Customer
	if err := pgxscan.Select(ctx, r.Querier(ctx), &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
