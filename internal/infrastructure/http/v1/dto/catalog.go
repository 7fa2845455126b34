package dto

import (
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/catalogs/category"
	"makerbooks/internal/domain/catalogs/customer"
	"makerbooks/internal/domain/catalogs/product"
	"makerbooks/internal/domain/catalogs/supplier"
)

// --- Product ---

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	Code         string      `json:"code"`
	Name         string      `json:"name" binding:"required"`
	Kind         string      `json:"kind" binding:"required"`
	CategoryID   string      `json:"categoryId" binding:"required"`
	SellingPrice types.Money `json:"sellingPrice"`
	ReorderLevel int64       `json:"reorderLevel"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	categoryID, err := id.Parse(r.CategoryID)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", "categoryId")
	}

	p := product.New(r.Code, r.Name, product.Kind(r.Kind), categoryID)
	p.SellingPrice = r.SellingPrice
	p.ReorderLevel = r.ReorderLevel
	return p, nil
}

// UpdateProductRequest edits catalog fields. Stock quantity and cost
// basis are document-driven and not editable here.
type UpdateProductRequest struct {
	Code         *string `json:"code,omitempty"`
	Name         *string `json:"name,omitempty"`
	CategoryID   *string `json:"categoryId,omitempty"`
	ReorderLevel *int64  `json:"reorderLevel,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.CategoryID != nil {
		categoryID, err := id.Parse(*r.CategoryID)
		if err != nil {
			return apperror.NewValidation("invalid id format").
				WithDetail("field", "categoryId")
		}
		p.CategoryID = categoryID
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	return nil
}

// OverridePriceRequest sets a manual selling price.
type OverridePriceRequest struct {
	SellingPrice types.Money `json:"sellingPrice"`
}

// ProductResponse is a product in API responses.
type ProductResponse struct {
	ID              string      `json:"id"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	Kind            string      `json:"kind"`
	CategoryID      string      `json:"categoryId"`
	CostPriceUSD    types.Money `json:"costPriceUsd"`
	CostPriceNGN    types.Money `json:"costPriceNgn"`
	SellingPrice    types.Money `json:"sellingPrice"`
	PriceOverridden bool        `json:"priceOverridden"`
	QuantityInStock int64       `json:"quantityInStock"`
	ReorderLevel    int64       `json:"reorderLevel"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// FromProduct converts a domain entity to a response DTO.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID.String(),
		Code:            p.Code,
		Name:            p.Name,
		Kind:            string(p.Kind),
		CategoryID:      p.CategoryID.String(),
		CostPriceUSD:    p.CostPriceUSD,
		CostPriceNGN:    p.CostPriceNGN,
		SellingPrice:    p.SellingPrice,
		PriceOverridden: p.PriceOverridden,
		QuantityInStock: p.QuantityInStock,
		ReorderLevel:    p.ReorderLevel,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ProductListResponse is a page of products.
type ProductListResponse struct {
	Items []*ProductResponse `json:"items"`
	ListMeta
}

// --- Category ---

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse is a category in API responses.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromCategory converts a domain entity to a response DTO.
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// --- Supplier ---

// SupplierRequest creates or updates a supplier.
type SupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// SupplierResponse is a supplier in API responses.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromSupplier converts a domain entity to a response DTO.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// --- Customer ---

// CustomerRequest creates or updates a customer. TotalPurchases is
// sale-driven and never accepted from clients.
type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// CustomerResponse is a customer in API responses.
type CustomerResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	TotalPurchases types.Money `json:"totalPurchases"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// FromCustomer converts a domain entity to a response DTO.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		TotalPurchases: c.TotalPurchases,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
