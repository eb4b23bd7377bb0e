package models

import (
	"time"

	"gorm.io/gorm"
)

// DreamLog represents a single journal entry. DreamDate is the night or nap
// being described, which is distinct from CreatedAt.
type DreamLog struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Description string         `gorm:"not null" json:"description"`
	DreamDate   time.Time      `gorm:"not null" json:"dream_date"`
	IsNap       bool           `gorm:"default:false" json:"is_nap"`

	// Relationships
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags []Tag `gorm:"many2many:dream_log_tags;" json:"tags,omitempty"`
}
