package dto

import (
	"time"

	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/settings"
)

// MarginTableRequest replaces the margin table. Keys are category ids
// or "default"; values are margin percentages.
type MarginTableRequest struct {
	Margins map[string]types.Money `json:"margins" binding:"required"`
}

// MarginTableResponse is the margin table in API responses.
type MarginTableResponse struct {
	Margins map[string]types.Money `json:"margins"`
}

// RecordRateRequest appends a rate to the USD/NGN series.
type RecordRateRequest struct {
	Rate          types.Money `json:"rate" binding:"required"`
	EffectiveDate time.Time   `json:"effectiveDate" binding:"required"`
	Note          string      `json:"note,omitempty"`
}

// RateResponse is one exchange rate row.
type RateResponse struct {
	ID            string      `json:"id"`
	Rate          types.Money `json:"rate"`
	EffectiveDate time.Time   `json:"effectiveDate"`
	Note          string      `json:"note,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// FromRate converts a rate row to a response DTO.
func FromRate(r *settings.ExchangeRate) *RateResponse {
	return &RateResponse{
		ID:            r.ID.String(),
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
		Note:          r.Note,
		CreatedAt:     r.CreatedAt,
	}
}

// RateListResponse is a page of exchange rates.
type RateListResponse struct {
	Items []*RateResponse `json:"items"`
	ListMeta
}
