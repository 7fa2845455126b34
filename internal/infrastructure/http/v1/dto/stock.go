package dto

import (
	"time"

	"makerbooks/internal/core/entity"
)

// AvailabilityResponse is the current stock level of one product.
type AvailabilityResponse struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// MovementResponse is one stock history row.
type MovementResponse struct {
	LineID       string    `json:"lineId"`
	RecorderID   string    `json:"recorderId"`
	RecorderType string    `json:"recorderType"`
	ProductID    string    `json:"productId"`
	Direction    string    `json:"direction"`
	Quantity     int64     `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromMovement converts a movement to a response DTO.
func FromMovement(m entity.StockMovement) MovementResponse {
	return MovementResponse{
		LineID:       m.LineID.String(),
		RecorderID:   m.RecorderID.String(),
		RecorderType: m.RecorderType,
		ProductID:    m.ProductID.String(),
		Direction:    string(m.Direction),
		Quantity:     m.Quantity,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementListResponse is a page of stock movements.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	ListMeta
}
