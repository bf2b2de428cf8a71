package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create adds a member to an organization on behalf of
	// RequestedBy. Validation runs in order and fails fast: the
	// organization must exist, the inviter must be a member, the
	// inviter must be an admin, an email invite must resolve to a
	// user, and the target must not already be a member.
	Create(ctx context.Context, req CreateMemberRequest) (*Member, error)

	// GetByID is unauthenticated by design.
	GetByID(ctx context.Context, id snowflake.ID) (*Member, error)

	// ListByUser returns the user's memberships, each carrying its
	// organization's display name. An unresolvable organization yields
	// a nil name, never drops the membership.
	ListByUser(ctx context.Context, userID snowflake.ID) ([]MemberWithOrganization, error)

	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Member, error)

	// Update mutates isAdmin and deptName. Allowed for an admin of the
	// membership's organization, or for the member themself; only an
	// admin may change the admin flag.
	Update(ctx context.Context, id, requestingUserID snowflake.ID, req UpdateMemberRequest) (*Member, error)

	// Delete removes the membership under the same self-or-admin rule.
	Delete(ctx context.Context, id, requestingUserID snowflake.ID) error
}

type CreateMemberRequest struct {
	OrganizationID snowflake.ID
	// Exactly one of UserID or Email identifies the invitee.
	UserID      snowflake.ID
	Email       string
	RequestedBy snowflake.ID
	IsAdmin     bool
}

type UpdateMemberRequest struct {
	IsAdmin  *bool
	DeptName *string
}

var (
	ErrNotFound             = errors.New("member not found")
	ErrOrganizationNotFound = errors.New("this organization doesn't exist")
	ErrInviterNotMember     = errors.New("admin user not found in this organization")
	ErrInviterNotAdmin      = errors.New("user is not an admin of this organization")
	ErrUserEmailNotFound    = errors.New("user with this email does not exist")
	ErrAlreadyMember        = errors.New("user is already a member of this organization")
	ErrInvalidInvitee       = errors.New("a user id or email is required")
	ErrNotMember            = errors.New("user is not a member of this organization")
	ErrNotSelfOrAdmin       = errors.New("only admins or the account owner can modify this membership")
	ErrAdminFlagForbidden   = errors.New("only an admin can change the admin flag")
)
