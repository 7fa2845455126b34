package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/domain/documents/batch"
	"makerbooks/internal/infrastructure/http/v1/dto"
)

// BatchHandler handles HTTP requests for purchase batches.
type BatchHandler struct {
	*BaseHandler
	service *batch.Service
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(base *BaseHandler, service *batch.Service) *BatchHandler {
	return &BatchHandler{BaseHandler: base, service: service}
}

// Create handles POST /documents/batches.
func (h *BatchHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.CreateDraft(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromBatch(doc))
}

// Get handles GET /documents/batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(doc))
}

// Update handles PUT /documents/batches/:id - draft batches only.
func (h *BatchHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.UpdateDraft(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(doc))
}

// Receive handles POST /documents/batches/:id/receive - applies the
// batch to stock and locks it.
func (h *BatchHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ReceiveBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Receive(ctx, batchID, req.ExchangeRate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(doc))
}

// Delete handles DELETE /documents/batches/:id - draft batches only.
func (h *BatchHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, batchID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /documents/batches with filtering.
func (h *BatchHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := batch.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if status := c.Query("status"); status != "" {
		val := batch.Status(status)
		filter.Status = &val
	}
	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	docs, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.BatchResponse, len(docs))
	for i, doc := range docs {
		items[i] = dto.FromBatch(doc)
	}

	h.OK(c, dto.BatchListResponse{
		Items:    items,
		ListMeta: dto.ListMeta{Count: len(items), Limit: filter.Limit, Offset: filter.Offset},
	})
}

// RegisterRoutes registers batch routes.
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/receive", h.Receive)
}
