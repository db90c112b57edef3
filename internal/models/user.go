package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account, upserted on each OAuth login.
// Role is informational; the authorization gate decides admin rights from
// configuration, not from this column.
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	Name        string `gorm:"not null;default:''"`
	Role        string `gorm:"not null;default:'creator'"` // enum: 'creator' or 'admin'
	LastLoginAt *time.Time
}
