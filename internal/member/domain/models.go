// Package domain contains persistence models for the membership service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Member links one user to one organization with an admin flag. At most
// one row may exist per (organization, user) pair; the unique index
// backs up the service-level duplicate check.
type Member struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrganizationID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_members_org_user,priority:1" json:"organization_id"`
	UserID         snowflake.ID `gorm:"not null;index;uniqueIndex:ux_members_org_user,priority:2" json:"user_id"`
	InvitedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"invited_at"`
	IsAdmin        bool         `gorm:"not null;default:false" json:"is_admin"`
	DeptName       *string      `gorm:"type:text" json:"dept_name"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }

// MemberWithOrganization is a membership enriched with its organization's
// display name. The name is nil when the organization cannot be resolved.
type MemberWithOrganization struct {
	Member
	OrganizationName *string `json:"organization_name"`
}
