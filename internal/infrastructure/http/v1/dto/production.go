package dto

import (
	"time"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/documents/production"
)

// --- Request DTOs ---

// ProductionMaterialRequest is one consumed raw-material line.
type ProductionMaterialRequest struct {
	ProductID   string      `json:"productId" binding:"required"`
	Quantity    int64       `json:"quantity" binding:"required,gt=0"`
	UnitCostNGN types.Money `json:"unitCostNgn"`
}

// CreateProductionRequest creates a production order. Materials are
// consumed from stock immediately.
type CreateProductionRequest struct {
	ProductID string                      `json:"productId" binding:"required"`
	MakerID   string                      `json:"makerId" binding:"required"`
	LaborCost types.Money                 `json:"laborCost"`
	Materials []ProductionMaterialRequest `json:"materials" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity. Malformed ids are
// rejected here rather than degrading into nil-id validation errors.
func (r *CreateProductionRequest) ToEntity() (*production.Production, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", "productId")
	}
	makerID, err := id.Parse(r.MakerID)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", "makerId")
	}

	doc := production.New(productID, makerID)
	for i, m := range r.Materials {
		materialID, err := id.Parse(m.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", "materials.productId").
				WithDetail("lineNo", i+1)
		}
		doc.AddMaterial(materialID, m.Quantity, m.UnitCostNGN)
	}
	doc.SetLaborCost(r.LaborCost)
	return doc, nil
}

// TransitionProductionRequest moves an order to a new status.
type TransitionProductionRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Response DTOs ---

// ProductionMaterialResponse is one consumed line in API responses.
type ProductionMaterialResponse struct {
	LineID       string      `json:"lineId"`
	LineNo       int         `json:"lineNo"`
	ProductID    string      `json:"productId"`
	Quantity     int64       `json:"quantity"`
	UnitCostNGN  types.Money `json:"unitCostNgn"`
	LineTotalNGN types.Money `json:"lineTotalNgn"`
}

// ProductionResponse is a production order in API responses.
type ProductionResponse struct {
	ID                      string                       `json:"id"`
	Number                  string                       `json:"number"`
	ProductID               string                       `json:"productId"`
	MakerID                 string                       `json:"makerId"`
	Status                  string                       `json:"status"`
	LaborCost               types.Money                  `json:"laborCost"`
	TotalMaterialCost       types.Money                  `json:"totalMaterialCost"`
	TotalProductionCost     types.Money                  `json:"totalProductionCost"`
	MarginPercent           types.Money                  `json:"marginPercent"`
	RecommendedSellingPrice types.Money                  `json:"recommendedSellingPrice"`
	Materials               []ProductionMaterialResponse `json:"materials,omitempty"`
	CreatedAt               time.Time                    `json:"createdAt"`
	UpdatedAt               time.Time                    `json:"updatedAt"`
}

// FromProduction converts a domain entity to a response DTO.
func FromProduction(doc *production.Production) *ProductionResponse {
	resp := &ProductionResponse{
		ID:                      doc.ID.String(),
		Number:                  doc.Number,
		ProductID:               doc.ProductID.String(),
		MakerID:                 doc.MakerID.String(),
		Status:                  string(doc.Status),
		LaborCost:               doc.LaborCost,
		TotalMaterialCost:       doc.TotalMaterialCost,
		TotalProductionCost:     doc.TotalProductionCost,
		MarginPercent:           doc.MarginPercent,
		RecommendedSellingPrice: doc.RecommendedSellingPrice,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}

	resp.Materials = make([]ProductionMaterialResponse, len(doc.Materials))
	for i, m := range doc.Materials {
		resp.Materials[i] = ProductionMaterialResponse{
			LineID:       m.LineID.String(),
			LineNo:       m.LineNo,
			ProductID:    m.ProductID.String(),
			Quantity:     m.Quantity,
			UnitCostNGN:  m.UnitCostNGN,
			LineTotalNGN: m.LineTotalNGN,
		}
	}

	return resp
}

// ProductionListResponse is a page of production orders.
type ProductionListResponse struct {
	Items []*ProductionResponse `json:"items"`
	ListMeta
}
