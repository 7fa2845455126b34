package entity

import (
	"time"

	"makerbooks/internal/core/id"
)

// Direction defines which way a stock movement goes.
type Direction string

const (
	// DirectionIn increases a product's stock
	DirectionIn Direction = "in"
	// DirectionOut decreases a product's stock
	DirectionOut Direction = "out"
)

// StockMovement is one line in the stock history. Movements are
// immutable - every ledger adjustment appends exactly one.
// The recorder is the document that caused the adjustment.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "Batch", "Production", "Sale")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	ProductID id.ID     `db:"product_id" json:"productId"`
	Direction Direction `db:"direction" json:"direction"`

	// Quantity is always positive; Direction carries the sign
	Quantity int64 `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a movement from a signed delta.
func NewStockMovement(recorderID id.ID, recorderType string, productID id.ID, delta int64) StockMovement {
	direction := DirectionIn
	qty := delta
	if delta < 0 {
		direction = DirectionOut
		qty = -delta
	}
	return StockMovement{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		ProductID:    productID,
		Direction:    direction,
		Quantity:     qty,
		CreatedAt:    time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on direction.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
