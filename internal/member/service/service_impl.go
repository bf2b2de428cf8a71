package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orgdesk/orgdesk/internal/clock"
	"github.com/orgdesk/orgdesk/internal/member/domain"
	orgdomain "github.com/orgdesk/orgdesk/internal/organization/domain"
	userdomain "github.com/orgdesk/orgdesk/internal/user/domain"
	"github.com/orgdesk/orgdesk/pkg/db"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	orgs  orgdomain.Repository
	users userdomain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, orgs orgdomain.Repository, users userdomain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		orgs:  orgs,
		users: users,
		genID: genID,
		clock: clk,
		log:   log,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error) {
	org, err := s.orgs.GetByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}

	inviter, err := s.repo.FindByUserAndOrg(ctx, req.RequestedBy, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, domain.ErrInviterNotMember
	}
	if !inviter.IsAdmin {
		return nil, domain.ErrInviterNotAdmin
	}

	targetUserID, err := s.resolveInvitee(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndOrg(ctx, targetUserID, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}

	member := domain.Member{
		ID:             s.genID.Generate(),
		OrganizationID: req.OrganizationID,
		UserID:         targetUserID,
		InvitedAt:      s.clock.Now(),
		IsAdmin:        req.IsAdmin,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		// Two concurrent invites can pass the existence check; the
		// unique index turns the loser into the same conflict.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, err
	}

	return &member, nil
}

func (s *service) resolveInvitee(ctx context.Context, req domain.CreateMemberRequest) (snowflake.ID, error) {
	if req.UserID != 0 {
		return req.UserID, nil
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return 0, domain.ErrInvalidInvitee
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrUserEmailNotFound
	}
	return user.ID, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	return member, nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.MemberWithOrganization, error) {
	memberships, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MemberWithOrganization, 0, len(memberships))
	for _, m := range memberships {
		item := domain.MemberWithOrganization{Member: m}
		org, err := s.orgs.GetByID(ctx, m.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			s.log.Warn("membership references missing organization",
				zap.String("member_id", m.ID.String()),
				zap.String("organization_id", m.OrganizationID.String()),
			)
		} else {
			item.OrganizationName = &org.Name
		}
		out = append(out, item)
	}

	return out, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Member, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *service) Update(ctx context.Context, id, requestingUserID snowflake.ID, req domain.UpdateMemberRequest) (*domain.Member, error) {
	target, requester, err := s.authorizeMutation(ctx, id, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.IsAdmin != nil {
		// Self-service may touch dept_name only; granting yourself the
		// admin flag is the escalation this layer exists to block.
		if !requester.IsAdmin {
			return nil, domain.ErrAdminFlagForbidden
		}
		target.IsAdmin = *req.IsAdmin
	}
	if req.DeptName != nil {
		target.DeptName = req.DeptName
	}

	if err := s.repo.Update(ctx, *target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *service) Delete(ctx context.Context, id, requestingUserID snowflake.ID) error {
	if _, _, err := s.authorizeMutation(ctx, id, requestingUserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeMutation enforces the self-or-admin rule: the target
// membership must exist, the requester must hold a membership in the
// same organization, and that membership must be admin unless the
// requester is the target's own user. Admins of other organizations
// get no rights here.
func (s *service) authorizeMutation(ctx context.Context, id, requestingUserID snowflake.ID) (target, requester *domain.Member, err error) {
	target, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, domain.ErrNotFound
	}

	requester, err = s.repo.FindByUserAndOrg(ctx, requestingUserID, target.OrganizationID)
	if err != nil {
		return nil, nil, err
	}
	if requester == nil {
		return nil, nil, domain.ErrNotMember
	}
	if !requester.IsAdmin && requester.UserID != target.UserID {
		return nil, nil, domain.ErrNotSelfOrAdmin
	}

	return target, requester, nil
}
