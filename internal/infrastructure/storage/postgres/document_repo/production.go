package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/documents/production"
	"makerbooks/internal/infrastructure/storage/postgres"
)

const (
	productionsTable         = "productions"
	productionMaterialsTable = "production_materials"
)

// Compile-time check.
var _ production.Repository = (*ProductionRepo)(nil)

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	*postgres.BaseRepo[*production.Production]
}

// NewProductionRepo creates a new production order repository.
func NewProductionRepo(txManager *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		BaseRepo: postgres.NewBaseRepo(
			txManager,
			productionsTable,
			postgres.ExtractDBColumns[production.Production](),
			func() *production.Production { return &production.Production{} },
		),
	}
}

// SaveMaterials inserts the material rows. Materials are write-once,
// so there is no delete-then-insert cycle.
func (r *ProductionRepo) SaveMaterials(ctx context.Context, productionID id.ID, materials []production.Material) error {
	if len(materials) == 0 {
		return nil
	}

	q := r.Builder().Insert(productionMaterialsTable).Columns(
		"line_id", "production_id", "line_no",
		"product_id", "quantity", "unit_cost_ngn", "line_total_ngn",
	)
	for _, m := range materials {
		q = q.Values(
			m.LineID, productionID, m.LineNo,
			m.ProductID, m.Quantity, m.UnitCostNGN, m.LineTotalNGN,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert materials: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert materials: %w", err)
	}

	return nil
}

// GetMaterials loads the material rows in line order.
func (r *ProductionRepo) GetMaterials(ctx context.Context, productionID id.ID) ([]production.Material, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity", "unit_cost_ngn", "line_total_ngn").
		From(productionMaterialsTable).
		Where(squirrel.Eq{"production_id": productionID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var materials []production.Material
	if err := pgxscan.Select(ctx, r.Querier(ctx), &materials, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}
	return materials, nil
}

// List retrieves production orders with filtering, newest-first.
func (r *ProductionRepo) List(ctx context.Context, filter production.ListFilter) ([]*production.Production, error) {
	q := r.BaseSelect().OrderBy("created_at DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.MakerID != nil {
		q = q.Where(squirrel.Eq{"maker_id": *filter.MakerID})
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

	var docs []*production.Production
	if err := pgxscan.Select(ctx, r.Querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	return docs, nil
}
