// Package domain contains the read-only user model. Users belong to the
// identity provider; this service never creates, updates, or deletes them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User represents an externally owned user account.
type User struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Email     string            `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
