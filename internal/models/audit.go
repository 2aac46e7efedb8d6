package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions and resource types.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ResourceUser = "user"
	ResourcePost = "post"
)

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID           int       `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Action       string    `json:"action"`       // create, update, delete
	ResourceType string    `json:"resourceType"` // user, post
	ResourceID   uuid.UUID `json:"resourceId"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
