package dto

import (
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/documents/batch"
)

// --- Request DTOs ---

// BatchItemRequest is one purchased line in a create/update request.
type BatchItemRequest struct {
	ProductID   string      `json:"productId" binding:"required"`
	Quantity    int64       `json:"quantity" binding:"required,gt=0"`
	UnitCostUSD types.Money `json:"unitCostUsd"`
}

// CreateBatchRequest creates a draft purchase batch.
type CreateBatchRequest struct {
	SupplierID string             `json:"supplierId" binding:"required"`
	Date       time.Time          `json:"date" binding:"required"`
	Items      []BatchItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity. Malformed ids are
// rejected here rather than degrading into nil-id validation errors.
func (r *CreateBatchRequest) ToEntity() (*batch.Batch, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", "supplierId")
	}

	doc := batch.New(supplierID, r.Date)
	for i, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", "items.productId").
				WithDetail("lineNo", i+1)
		}
		doc.AddItem(productID, item.Quantity, item.UnitCostUSD)
	}
	return doc, nil
}

// UpdateBatchRequest edits a draft batch.
type UpdateBatchRequest struct {
	SupplierID *string            `json:"supplierId,omitempty"`
	Date       *time.Time         `json:"date,omitempty"`
	Items      []BatchItemRequest `json:"items,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateBatchRequest) ApplyTo(doc *batch.Batch) error {
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return apperror.NewValidation("invalid id format").
				WithDetail("field", "supplierId")
		}
		doc.SupplierID = supplierID
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Items != nil {
		items := make([]batch.Item, 0, len(r.Items))
		for i, item := range r.Items {
			productID, err := id.Parse(item.ProductID)
			if err != nil {
				return apperror.NewValidation("invalid id format").
					WithDetail("field", "items.productId").
					WithDetail("lineNo", i+1)
			}
			items = append(items, batch.Item{
				ProductID:   productID,
				Quantity:    item.Quantity,
				UnitCostUSD: item.UnitCostUSD,
			})
		}
		doc.ReplaceItems(items)
	}
	return nil
}

// ReceiveBatchRequest locks a draft batch into stock. A zero or absent
// rate means "use the rate in force on the batch date".
type ReceiveBatchRequest struct {
	ExchangeRate types.Money `json:"exchangeRate"`
}

// --- Response DTOs ---

// BatchItemResponse is one purchased line in API responses.
type BatchItemResponse struct {
	LineID       string      `json:"lineId"`
	LineNo       int         `json:"lineNo"`
	ProductID    string      `json:"productId"`
	Quantity     int64       `json:"quantity"`
	UnitCostUSD  types.Money `json:"unitCostUsd"`
	LineTotalUSD types.Money `json:"lineTotalUsd"`
}

// BatchResponse is a purchase batch in API responses.
type BatchResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	SupplierID   string              `json:"supplierId"`
	Date         time.Time           `json:"date"`
	Status       string              `json:"status"`
	ExchangeRate types.Money         `json:"exchangeRate"`
	TotalCostUSD types.Money         `json:"totalCostUsd"`
	TotalCostNGN types.Money         `json:"totalCostNgn"`
	Items        []BatchItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// FromBatch converts a domain entity to a response DTO.
func FromBatch(doc *batch.Batch) *BatchResponse {
	resp := &BatchResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		SupplierID:   doc.SupplierID.String(),
		Date:         doc.Date,
		Status:       string(doc.Status),
		ExchangeRate: doc.ExchangeRate,
		TotalCostUSD: doc.TotalCostUSD,
		TotalCostNGN: doc.TotalCostNGN,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	resp.Items = make([]BatchItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = BatchItemResponse{
			LineID:       item.LineID.String(),
			LineNo:       item.LineNo,
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			UnitCostUSD:  item.UnitCostUSD,
			LineTotalUSD: item.LineTotalUSD,
		}
	}

	return resp
}

// BatchListResponse is a page of purchase batches.
type BatchListResponse struct {
	Items []*BatchResponse `json:"items"`
	ListMeta
}
