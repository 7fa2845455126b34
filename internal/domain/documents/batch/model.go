// Package batch provides the purchase batch document: a purchase order
// for raw materials priced in USD, received into stock at an NGN
// exchange rate locked on the day of receipt.
package batch

import (
	"context"
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// EntityType is the recorder type written to stock movements and the
// audit trail.
const EntityType = "batch"

// Status is the lifecycle state of a purchase batch.
type Status string

const (
	// StatusDraft - editable, no stock effect yet.
	StatusDraft Status = "draft"

	// StatusReceived - goods are in stock, document is immutable.
	StatusReceived Status = "received"
)

// Item is one purchased line.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity     int64       `db:"quantity" json:"quantity"`
	UnitCostUSD  types.Money `db:"unit_cost_usd" json:"unitCostUsd"`
	LineTotalUSD types.Money `db:"line_total_usd" json:"lineTotalUsd"`
}

// Batch represents a purchase batch document.
type Batch struct {
	entity.BaseDocument

	Number     string    `db:"number" json:"number"`
	SupplierID id.ID     `db:"supplier_id" json:"supplierId"`
	Date       time.Time `db:"date" json:"date"`
	Status     Status    `db:"status" json:"status"`

	// ExchangeRate is the NGN-per-USD rate locked at receipt.
	// Zero while the batch is a draft.
	ExchangeRate types.Money `db:"exchange_rate" json:"exchangeRate"`

	TotalCostUSD types.Money `db:"total_cost_usd" json:"totalCostUsd"`
	TotalCostNGN types.Money `db:"total_cost_ngn" json:"totalCostNgn"`

	// Table part: purchased items
	Items []Item `db:"-" json:"items"`
}

// New creates a draft purchase batch.
func New(supplierID id.ID, date time.Time) *Batch {
	return &Batch{
		BaseDocument: entity.NewBaseDocument(),
		SupplierID:   supplierID,
		Date:         date,
		Status:       StatusDraft,
		Items:        make([]Item, 0),
	}
}

// AddItem appends a purchased line and recalculates totals.
func (b *Batch) AddItem(productID id.ID, quantity int64, unitCostUSD types.Money) {
	item := Item{
		LineID:       id.New(),
		LineNo:       len(b.Items) + 1,
		ProductID:    productID,
		Quantity:     quantity,
		UnitCostUSD:  unitCostUSD,
		LineTotalUSD: unitCostUSD.Mul(types.MoneyFromInt(quantity)),
	}

	b.Items = append(b.Items, item)
	b.recalculateTotals()
}

// ReplaceItems swaps the item list and recalculates line and document
// totals. Line numbers are reassigned in order.
func (b *Batch) ReplaceItems(items []Item) {
	b.Items = make([]Item, 0, len(items))
	for _, item := range items {
		if id.IsNil(item.LineID) {
			item.LineID = id.New()
		}
		item.LineNo = len(b.Items) + 1
		item.LineTotalUSD = item.UnitCostUSD.Mul(types.MoneyFromInt(item.Quantity))
		b.Items = append(b.Items, item)
	}
	b.recalculateTotals()
}

func (b *Batch) recalculateTotals() {
	total := types.Zero()
	for _, item := range b.Items {
		total = total.Add(item.LineTotalUSD)
	}
	b.TotalCostUSD = total
}

// Validate implements entity.Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if id.IsNil(b.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if b.Date.IsZero() {
		return apperror.NewValidation("batch date is required").
			WithDetail("field", "date")
	}

	if len(b.Items) == 0 {
		return apperror.NewValidation("batch must have at least one item").
			WithDetail("field", "items")
	}

	for _, item := range b.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("lineNo", item.LineNo)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("lineNo", item.LineNo)
		}
		if item.UnitCostUSD.IsNegative() {
			return apperror.NewValidation("item unit cost cannot be negative").
				WithDetail("lineNo", item.LineNo)
		}
	}

	return nil
}

// CanModify returns an error when the batch is no longer editable.
// A received batch is immutable: correcting it requires a counter
// document, not an edit. Editing or deleting means moving the batch
// back toward draft, so the rejection is a state-transition error.
func (b *Batch) CanModify() error {
	if b.Status != StatusDraft {
		return apperror.NewInvalidStateTransition(EntityType, b.ID, string(b.Status), string(StatusDraft))
	}
	return nil
}

// IsReceived reports whether stock effects have been applied.
func (b *Batch) IsReceived() bool {
	return b.Status == StatusReceived
}
