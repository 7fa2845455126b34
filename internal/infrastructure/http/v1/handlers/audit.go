package handlers

import (
	"github.com/gin-gonic/gin"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/infrastructure/http/v1/dto"
	"makerbooks/internal/infrastructure/storage/postgres"
)

// auditEntityTypes are the entity types with audit history.
var auditEntityTypes = map[string]bool{
	"batch":      true,
	"production": true,
	"sale":       true,
}

// AuditHandler serves read-only audit trail queries.
type AuditHandler struct {
	*BaseHandler
	store *postgres.AuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.AuditStore) *AuditHandler {
	return &AuditHandler{BaseHandler: base, store: store}
}

// History handles GET /audit/:entityType/:id.
func (h *AuditHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	entityType := c.Param("entityType")
	if !auditEntityTypes[entityType] {
		h.Error(c, apperror.NewValidation("unknown entity type").
			WithDetail("entity_type", entityType))
		return
	}

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.store.EntityHistory(ctx, entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = dto.AuditEntryResponse{
			ID:         entry.ID.String(),
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID.String(),
			Action:     entry.Action,
			Changes:    entry.Changes,
			CreatedAt:  entry.CreatedAt,
		}
	}

	h.OK(c, dto.AuditHistoryResponse{Items: items})
}

// RegisterRoutes registers audit routes.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entityType/:id", h.History)
}
