package handlers

import (
	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/stock"
	"makerbooks/internal/infrastructure/http/v1/dto"
)

// StockHandler handles read-only stock ledger queries. All writes go
// through documents; there is no manual adjustment endpoint.
type StockHandler struct {
	*BaseHandler
	ledger *stock.Ledger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledger *stock.Ledger) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledger}
}

// Availability handles GET /stock/availability/:productId.
func (h *StockHandler) Availability(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	qty, err := h.ledger.Availability(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AvailabilityResponse{
		ProductID: productID.String(),
		Quantity:  qty,
	})
}

// Movements handles GET /stock/movements/:productId - history newest-first.
func (h *StockHandler) Movements(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	movements, err := h.ledger.Movements(ctx, productID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	h.OK(c, dto.MovementListResponse{
		Items:    items,
		ListMeta: dto.ListMeta{Count: len(items), Limit: limit, Offset: offset},
	})
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability/:productId", h.Availability)
	rg.GET("/movements/:productId", h.Movements)
}
