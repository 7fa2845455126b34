package production

import (
	"context"
	"fmt"
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/numerator"
	"makerbooks/internal/core/tx"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/audit"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/pricing"
	"makerbooks/internal/domain/stock"
	"makerbooks/pkg/logger"
)

// numeratorStrategy for production orders. Internal document, gaps are
// acceptable.
const numeratorStrategy = numerator.StrategyCached

// MarginSource resolves the margin percentage for a category, falling
// back to the default entry.
type MarginSource interface {
	ResolveMargin(ctx context.Context, categoryID string) (types.Money, error)
}

// Service provides business operations for production orders.
//
// Create consumes material stock, Transition to completed credits the
// finished good, Transition to cancelled restores the materials. Each
// stock-effecting operation is one transaction.
type Service struct {
	repo      Repository
	products  product.Repository
	ledger    *stock.Ledger
	margins   MarginSource
	numerator numerator.Generator
	txManager tx.Manager
	trail     audit.Trail
}

// NewService creates a new production order service.
func NewService(
	repo Repository,
	products product.Repository,
	ledger *stock.Ledger,
	margins MarginSource,
	gen numerator.Generator,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		margins:   margins,
		numerator: gen,
		txManager: txManager,
		trail:     trail,
	}
}

// Create validates the order, snapshots the margin, prices the output
// and consumes the material stock. The material deductions and the
// pending order persist as one unit: if any material is short, nothing
// is consumed and nothing is stored.
func (s *Service) Create(ctx context.Context, p *Production) error {
	p.Status = StatusPending

	if err := p.Validate(ctx); err != nil {
		return err
	}

	target, err := s.products.GetByID(ctx, p.ProductID)
	if err != nil {
		return err
	}
	if target.Kind != product.KindFinishedGood {
		return apperror.NewValidation("production target must be a finished good").
			WithDetail("product_id", target.ID.String()).
			WithDetail("kind", string(target.Kind))
	}

	margin, err := s.margins.ResolveMargin(ctx, target.CategoryID.String())
	if err != nil {
		return fmt.Errorf("resolve margin: %w", err)
	}

	recommended, err := pricing.Recommend(p.TotalProductionCost, margin)
	if err != nil {
		return err
	}
	p.MarginPercent = margin
	p.RecommendedSellingPrice = recommended

	if p.Number == "" {
		cfg := numerator.DefaultConfig("PRD")
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		p.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec := stock.Recorder{ID: p.ID, Type: EntityType}
		for _, m := range p.Materials {
			if err := s.ledger.Adjust(ctx, m.ProductID, -m.Quantity, rec); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create production: %w", err)
		}
		if err := s.repo.SaveMaterials(ctx, p.ID, p.Materials); err != nil {
			return fmt.Errorf("save materials: %w", err)
		}

		return s.trail.Record(ctx, EntityType, p.ID, audit.ActionCreate, map[string]any{
			"number":                p.Number,
			"product_id":            p.ProductID,
			"total_production_cost": p.TotalProductionCost,
			"recommended_price":     p.RecommendedSellingPrice,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "production created",
		"id", p.ID,
		"number", p.Number,
		"product_id", p.ProductID,
		"recommended_price", p.RecommendedSellingPrice)

	return nil
}

// Transition moves the order to newStatus per the allowed-transition
// table. Terminal orders reject every transition; completing twice can
// never double-credit stock.
func (s *Service) Transition(ctx context.Context, productionID id.ID, newStatus Status) (*Production, error) {
	if !newStatus.Valid() {
		return nil, apperror.NewValidation("unknown production status").
			WithDetail("status", string(newStatus))
	}

	doc, err := s.GetByID(ctx, productionID)
	if err != nil {
		return nil, err
	}

	if !doc.Status.CanTransitionTo(newStatus) {
		return nil, apperror.NewInvalidStateTransition(EntityType, productionID, string(doc.Status), string(newStatus))
	}

	from := doc.Status
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec := stock.Recorder{ID: doc.ID, Type: EntityType}

		switch newStatus {
		case StatusCompleted:
			if err := s.ledger.Adjust(ctx, doc.ProductID, 1, rec); err != nil {
				return err
			}
			if err := s.applyRecommendedPrice(ctx, doc); err != nil {
				return err
			}

		case StatusCancelled:
			for _, m := range doc.Materials {
				if err := s.ledger.Adjust(ctx, m.ProductID, m.Quantity, rec); err != nil {
					return err
				}
			}
		}

		doc.Status = newStatus
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update production: %w", err)
		}

		return s.trail.Record(ctx, EntityType, doc.ID, audit.ActionTransition, map[string]any{
			"from": string(from),
			"to":   string(newStatus),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "production transitioned",
		"id", doc.ID,
		"number", doc.Number,
		"from", from,
		"to", newStatus)

	return doc, nil
}

// applyRecommendedPrice writes the recorded recommendation to the
// target product unless the price was manually overridden.
func (s *Service) applyRecommendedPrice(ctx context.Context, doc *Production) error {
	target, err := s.products.GetByID(ctx, doc.ProductID)
	if err != nil {
		return err
	}
	if target.PriceOverridden {
		return nil
	}
	if err := s.products.SetSellingPrice(ctx, doc.ProductID, doc.RecommendedSellingPrice, false); err != nil {
		return fmt.Errorf("set selling price: %w", err)
	}
	return nil
}

// GetByID retrieves a production order with its materials.
func (s *Service) GetByID(ctx context.Context, productionID id.ID) (*Production, error) {
	doc, err := s.repo.GetByID(ctx, productionID)
	if err != nil {
		return nil, err
	}

	materials, err := s.repo.GetMaterials(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("get materials: %w", err)
	}
	doc.Materials = materials

	return doc, nil
}

// List retrieves production orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Production, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
