package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
)

type Service interface {
	// Create stores the organization together with its founding admin
	// membership for creatorUserID. Both rows are written in one
	// transaction; an organization never exists without a member.
	Create(ctx context.Context, creatorUserID snowflake.ID, req CreateOrganizationRequest) (*CreateOrganizationResult, error)

	// GetByID is unauthenticated by design.
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)

	// ListByUser returns every organization the user has a membership
	// in. Memberships whose organization cannot be resolved are logged
	// and skipped, never fail the call.
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Organization, error)

	// Update renames the organization. Checks run in order: the
	// organization must exist, the requester must be a member, the
	// requester's membership must be admin.
	Update(ctx context.Context, id, requestingUserID snowflake.ID, req UpdateOrganizationRequest) (*Organization, error)

	// Delete removes the organization and, in the same transaction,
	// all of its memberships. Same check order as Update.
	Delete(ctx context.Context, id, requestingUserID snowflake.ID) error
}

type CreateOrganizationRequest struct {
	Name string
}

type UpdateOrganizationRequest struct {
	Name string
}

type CreateOrganizationResult struct {
	Organization Organization        `json:"organization"`
	Member       memberdomain.Member `json:"member"`
}

var (
	ErrInvalidName = errors.New("organization name is required")
	ErrInvalidUser = errors.New("invalid user")
	ErrNotFound    = errors.New("organization not found")
	ErrNotMember   = errors.New("user is not a member of this organization")
	ErrNotAdmin    = errors.New("user is not an admin of this organization")
)
