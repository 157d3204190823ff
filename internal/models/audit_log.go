package models

import "time"

// AuditLog is append-only: rows are inserted by state-mutating operations
// and never updated or deleted.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Action       string `gorm:"size:50;not null" json:"action"`
	ResourceType string `gorm:"size:50" json:"resource_type"`
	ResourceID   string `gorm:"size:36;index" json:"resource_id"`
	ActorID      string `gorm:"size:36" json:"actor_id"`

	Changes string `gorm:"type:text" json:"changes"`
	Details string `gorm:"type:text" json:"details"`

	CreatedAt time.Time `json:"created_at"`
}
