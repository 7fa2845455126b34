// Package production provides the production order document: a work
// order that consumes raw-material stock on creation and credits one
// unit of a finished good on completion.
package production

import (
	"context"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// EntityType is the recorder type written to stock movements and the
// audit trail.
const EntityType = "production"

// Status is the lifecycle state of a production order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// allowedTransitions is the explicit state machine. Completed and
// cancelled are terminal.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	},
	StatusInProgress: {
		StatusPending:   true,
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo consults the allowed-transition table.
func (s Status) CanTransitionTo(to Status) bool {
	return allowedTransitions[s][to]
}

// Material is one consumed raw-material line. The list is captured at
// creation and never edited afterward; changing the plan means
// cancelling and recreating the order.
type Material struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity     int64       `db:"quantity" json:"quantity"`
	UnitCostNGN  types.Money `db:"unit_cost_ngn" json:"unitCostNgn"`
	LineTotalNGN types.Money `db:"line_total_ngn" json:"lineTotalNgn"`
}

// Production represents a production order for one unit of a finished
// good.
type Production struct {
	entity.BaseDocument

	Number string `db:"number" json:"number"`

	// ProductID is the target finished good.
	ProductID id.ID `db:"product_id" json:"productId"`
	MakerID   id.ID `db:"maker_id" json:"makerId"`

	Status Status `db:"status" json:"status"`

	LaborCost           types.Money `db:"labor_cost" json:"laborCost"`
	TotalMaterialCost   types.Money `db:"total_material_cost" json:"totalMaterialCost"`
	TotalProductionCost types.Money `db:"total_production_cost" json:"totalProductionCost"`

	// MarginPercent is snapshotted at creation from the margin table so
	// later settings edits do not rewrite history.
	MarginPercent           types.Money `db:"margin_percent" json:"marginPercent"`
	RecommendedSellingPrice types.Money `db:"recommended_selling_price" json:"recommendedSellingPrice"`

	// Table part: consumed materials
	Materials []Material `db:"-" json:"materials"`
}

// New creates a pending production order.
func New(productID, makerID id.ID) *Production {
	return &Production{
		BaseDocument: entity.NewBaseDocument(),
		ProductID:    productID,
		MakerID:      makerID,
		Status:       StatusPending,
		Materials:    make([]Material, 0),
	}
}

// AddMaterial appends a consumed line and recalculates material totals.
func (p *Production) AddMaterial(productID id.ID, quantity int64, unitCostNGN types.Money) {
	material := Material{
		LineID:       id.New(),
		LineNo:       len(p.Materials) + 1,
		ProductID:    productID,
		Quantity:     quantity,
		UnitCostNGN:  unitCostNGN,
		LineTotalNGN: unitCostNGN.Mul(types.MoneyFromInt(quantity)),
	}

	p.Materials = append(p.Materials, material)
	p.recalculateTotals()
}

func (p *Production) recalculateTotals() {
	total := types.Zero()
	for _, m := range p.Materials {
		total = total.Add(m.LineTotalNGN)
	}
	p.TotalMaterialCost = total
	p.TotalProductionCost = total.Add(p.LaborCost)
}

// SetLaborCost sets the labor component and refreshes totals.
func (p *Production) SetLaborCost(cost types.Money) {
	p.LaborCost = cost
	p.recalculateTotals()
}

// Validate implements entity.Validatable.
func (p *Production) Validate(ctx context.Context) error {
	if id.IsNil(p.ProductID) {
		return apperror.NewValidation("target product is required").
			WithDetail("field", "productId")
	}

	if id.IsNil(p.MakerID) {
		return apperror.NewValidation("maker is required").
			WithDetail("field", "makerId")
	}

	if len(p.Materials) == 0 {
		return apperror.NewValidation("production must consume at least one material").
			WithDetail("field", "materials")
	}

	for _, m := range p.Materials {
		if id.IsNil(m.ProductID) {
			return apperror.NewValidation("material product is required").
				WithDetail("lineNo", m.LineNo)
		}
		if m.Quantity <= 0 {
			return apperror.NewValidation("material quantity must be positive").
				WithDetail("lineNo", m.LineNo)
		}
		if m.UnitCostNGN.IsNegative() {
			return apperror.NewValidation("material unit cost cannot be negative").
				WithDetail("lineNo", m.LineNo)
		}
	}

	if p.LaborCost.IsNegative() {
		return apperror.NewValidation("labor cost cannot be negative").
			WithDetail("field", "laborCost")
	}

	return nil
}
