package dto

import (
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/documents/sale"
)

// --- Request DTOs ---

// SaleItemRequest is one sold line.
type SaleItemRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity" binding:"required,gt=0"`
	UnitPrice types.Money `json:"unitPrice"`
}

// CreateSaleRequest records a completed sale. CustomerID is optional
// for walk-in sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customerId,omitempty"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Channel       string            `json:"channel,omitempty"`
	Discount      types.Money       `json:"discount"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity. Malformed ids are
// rejected here; a bad customer id must never degrade into a walk-in
// sale.
func (r *CreateSaleRequest) ToEntity() (*sale.Sale, error) {
	var customerID *id.ID
	if r.CustomerID != "" {
		parsed, err := id.Parse(r.CustomerID)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", "customerId")
		}
		customerID = &parsed
	}

	channel := sale.Channel(r.Channel)
	if channel == "" {
		channel = sale.ChannelWalkIn
	}

	doc := sale.New(customerID, sale.PaymentMethod(r.PaymentMethod), channel)
	for i, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", "items.productId").
				WithDetail("lineNo", i+1)
		}
		doc.AddItem(productID, item.Quantity, item.UnitPrice)
	}
	doc.SetDiscount(r.Discount)
	return doc, nil
}

// --- Response DTOs ---

// SaleItemResponse is one sold line in API responses.
type SaleItemResponse struct {
	LineID    string      `json:"lineId"`
	LineNo    int         `json:"lineNo"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	LineTotal types.Money `json:"lineTotal"`
}

// SaleResponse is a sale in API responses.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	Date          time.Time          `json:"date"`
	CustomerID    string             `json:"customerId,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	Channel       string             `json:"channel"`
	Subtotal      types.Money        `json:"subtotal"`
	Discount      types.Money        `json:"discount"`
	Total         types.Money        `json:"total"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// FromSale converts a domain entity to a response DTO.
func FromSale(doc *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		PaymentMethod: string(doc.PaymentMethod),
		Channel:       string(doc.Channel),
		Subtotal:      doc.Subtotal,
		Discount:      doc.Discount,
		Total:         doc.Total,
		CreatedAt:     doc.CreatedAt,
	}
	if doc.CustomerID != nil {
		resp.CustomerID = doc.CustomerID.String()
	}

	resp.Items = make([]SaleItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = SaleItemResponse{
			LineID:    item.LineID.String(),
			LineNo:    item.LineNo,
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}

	return resp
}

// SaleListResponse is a page of sales.
type SaleListResponse struct {
	Items []*SaleResponse `json:"items"`
	ListMeta
}
