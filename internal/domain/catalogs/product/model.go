// Package product provides the Product catalog: raw materials that feed
// production and finished goods that are produced and sold.
package product

import (
	"context"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
)

// Kind distinguishes purchased inputs from produced outputs.
type Kind string

const (
	KindRawMaterial  Kind = "raw_material"
	KindFinishedGood Kind = "finished_good"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindRawMaterial || k == KindFinishedGood
}

// Product is one catalog entry. QuantityInStock is the authoritative
// counter the stock ledger adjusts; it never goes below zero.
//
// Cost basis is last-cost: receiving a batch overwrites CostPriceUSD
// and CostPriceNGN with the most recent purchase price.
type Product struct {
	entity.BaseDocument

	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	Kind       Kind   `db:"kind" json:"kind"`
	CategoryID id.ID  `db:"category_id" json:"categoryId"`

	CostPriceUSD types.Money `db:"cost_price_usd" json:"costPriceUsd"`
	CostPriceNGN types.Money `db:"cost_price_ngn" json:"costPriceNgn"`
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// PriceOverridden marks a manually set selling price; production
	// completion then leaves SellingPrice alone.
	PriceOverridden bool `db:"price_overridden" json:"priceOverridden"`

	QuantityInStock int64 `db:"quantity_in_stock" json:"quantityInStock"`
	ReorderLevel    int64 `db:"reorder_level" json:"reorderLevel"`
}

// New creates a product with zero stock.
func New(code, name string, kind Kind, categoryID id.ID) *Product {
	return &Product{
		BaseDocument: entity.NewBaseDocument(),
		Code:         code,
		Name:         name,
		Kind:         kind,
		CategoryID:   categoryID,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !p.Kind.Valid() {
		return apperror.NewValidation("kind must be raw_material or finished_good").
			WithDetail("field", "kind").
			WithDetail("value", string(p.Kind))
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}
	if p.QuantityInStock < 0 {
		return apperror.NewValidation("quantity in stock cannot be negative").
			WithDetail("field", "quantityInStock")
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}
	if p.CostPriceUSD.IsNegative() || p.CostPriceNGN.IsNegative() || p.SellingPrice.IsNegative() {
		return apperror.NewValidation("prices cannot be negative")
	}
	return nil
}

// BelowReorderLevel reports whether the product needs restocking.
func (p *Product) BelowReorderLevel() bool {
	return p.ReorderLevel > 0 && p.QuantityInStock <= p.ReorderLevel
}
