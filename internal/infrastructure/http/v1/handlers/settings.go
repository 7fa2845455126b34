package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"makerbooks/internal/domain/settings"
	"makerbooks/internal/infrastructure/http/v1/dto"
)

// SettingsHandler handles margin table and exchange rate endpoints.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service}
}

// GetMargins handles GET /settings/margins.
func (h *SettingsHandler) GetMargins(c *gin.Context) {
	ctx := c.Request.Context()

	table, err := h.service.Margins(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MarginTableResponse{Margins: table})
}

// PutMargins handles PUT /settings/margins - replaces the whole table.
// Existing production orders keep their snapshotted margin.
func (h *SettingsHandler) PutMargins(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.MarginTableRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SaveMargins(ctx, settings.MarginTable(req.Margins)); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MarginTableResponse{Margins: req.Margins})
}

// RecordRate handles POST /settings/rates - appends to the rate series.
func (h *SettingsHandler) RecordRate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecordRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rate, err := h.service.RecordRate(ctx, req.Rate, req.EffectiveDate, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromRate(rate))
}

// ListRates handles GET /settings/rates - the series newest-first.
func (h *SettingsHandler) ListRates(c *gin.Context) {
	ctx := c.Request.Context()

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	rates, err := h.service.ListRates(ctx, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.RateResponse, len(rates))
	for i := range rates {
		items[i] = dto.FromRate(&rates[i])
	}

	h.OK(c, dto.RateListResponse{
		Items:    items,
		ListMeta: dto.ListMeta{Count: len(items), Limit: limit, Offset: offset},
	})
}

// RegisterRoutes registers settings routes.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/margins", h.GetMargins)
	rg.PUT("/margins", h.PutMargins)
	rg.POST("/rates", h.RecordRate)
	rg.GET("/rates", h.ListRates)
}
