package dto

import (
	"encoding/json"
	"time"
)

// AuditEntryResponse is one audit trail row.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditHistoryResponse is the history of one entity, newest-first.
type AuditHistoryResponse struct {
	Items []AuditEntryResponse `json:"items"`
}
