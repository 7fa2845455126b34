// Package audit provides the domain contract for the audit trail.
// Document engines record a snapshot of every state-changing operation;
// the storage implementation lives in the infrastructure layer.
package audit

import (
	"context"

	"makerbooks/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionReceive    Action = "receive"
	ActionTransition Action = "transition"
)

// Trail records audit entries. Record is expected to be called inside
// the operation's transaction so the entry commits or rolls back with
// the documents it describes.
type Trail interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}

// Nop is a Trail that discards entries. Use in tests.
type Nop struct{}

// Record implements Trail.
func (Nop) Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error {
	return nil
}

var _ Trail = Nop{}
