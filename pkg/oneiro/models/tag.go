package models

import (
	"time"
)

// Tag represents a user-defined label that can be applied to dream logs.
// Tag rows are hard-deleted: a soft-delete column would keep dead rows in
// the (user_id, name) unique index and block re-creating the same name.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"name"`

	// Relationships
	DreamLogs []DreamLog `gorm:"many2many:dream_log_tags;" json:"dream_logs,omitempty"`
}
