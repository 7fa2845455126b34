package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/documents/production"
	"makerbooks/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles HTTP requests for production orders.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// Create handles POST /documents/productions. Materials are consumed
// from stock immediately; a shortage rejects the whole order.
func (h *ProductionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromProduction(doc))
}

// Get handles GET /documents/productions/:id.
func (h *ProductionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	productionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, productionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduction(doc))
}

// Transition handles POST /documents/productions/:id/transition.
func (h *ProductionHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()

	productionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransitionProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Transition(ctx, productionID, production.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduction(doc))
}

// List handles GET /documents/productions with filtering.
func (h *ProductionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := production.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if status := c.Query("status"); status != "" {
		val := production.Status(status)
		filter.Status = &val
	}
	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}
	if makerID := c.Query("makerId"); makerID != "" {
		if parsed, err := id.Parse(makerID); err == nil {
			filter.MakerID = &parsed
		}
	}

	docs, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ProductionResponse, len(docs))
	for i, doc := range docs {
		items[i] = dto.FromProduction(doc)
	}

	h.OK(c, dto.ProductionListResponse{
		Items:    items,
		ListMeta: dto.ListMeta{Count: len(items), Limit: filter.Limit, Offset: filter.Offset},
	})
}

// RegisterRoutes registers production routes.
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/transition", h.Transition)
}
