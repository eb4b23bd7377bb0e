package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered journal owner
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`

	// Relationships
	DreamLogs []DreamLog `gorm:"foreignKey:UserID" json:"dream_logs,omitempty"`
	Tags      []Tag      `gorm:"foreignKey:UserID" json:"tags,omitempty"`
}
