package model

import "time"

const (
	ActionRoleChange    = "ROLE_CHANGE"
	ActionDeleteUser    = "DELETE_USER"
	ActionProductCreate = "PRODUCT_CREATE"
	ActionProductUpdate = "PRODUCT_UPDATE"
	ActionProductDelete = "PRODUCT_DELETE"
)

const (
	EntityUser    = "user"
	EntityProduct = "product"
)

// AuditRecord is what callers hand to the audit log.
type AuditRecord struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Details  map[string]any
}

type AuditEntry struct {
	ID        int64          `json:"id"`
	UserID    *string        `json:"user_id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  *string        `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	AdminName *string        `json:"admin_name"`
}
