package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/orgdesk/orgdesk/internal/clock"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
	"github.com/orgdesk/orgdesk/internal/organization/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	members memberdomain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, members memberdomain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:      db,
		repo:    repo,
		members: members,
		genID:   genID,
		clock:   clk,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, creatorUserID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.CreateOrganizationResult, error) {
	if creatorUserID == 0 {
		return nil, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	founder := memberdomain.Member{
		ID:             s.genID.Generate(),
		OrganizationID: org.ID,
		UserID:         creatorUserID,
		InvitedAt:      now,
		IsAdmin:        true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, org); err != nil {
			return err
		}
		return s.members.WithTx(tx).Create(ctx, founder)
	})
	if err != nil {
		return nil, err
	}

	return &domain.CreateOrganizationResult{
		Organization: org,
		Member:       founder,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Organization, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	orgs := make([]domain.Organization, 0, len(memberships))
	for _, m := range memberships {
		org, err := s.repo.GetByID(ctx, m.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			s.log.Warn("membership references missing organization",
				zap.String("member_id", m.ID.String()),
				zap.String("organization_id", m.OrganizationID.String()),
			)
			continue
		}
		orgs = append(orgs, *org)
	}

	return orgs, nil
}

func (s *service) Update(ctx context.Context, id, requestingUserID snowflake.ID, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	org, err := s.authorizeAdmin(ctx, id, requestingUserID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	org.Name = name
	org.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) Delete(ctx context.Context, id, requestingUserID snowflake.ID) error {
	if _, err := s.authorizeAdmin(ctx, id, requestingUserID); err != nil {
		return err
	}

	// Memberships go in the same transaction so a deleted organization
	// never leaves orphans behind.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.members.WithTx(tx).DeleteByOrganization(ctx, id); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}

// authorizeAdmin runs the mutation gate in its fixed order: the
// organization must exist, then the requester must be a member, then
// that membership must be admin. The order decides which failure a
// caller sees and must not change.
func (s *service) authorizeAdmin(ctx context.Context, orgID, requestingUserID snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	membership, err := s.members.FindByUserAndOrg(ctx, requestingUserID, orgID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, domain.ErrNotMember
	}
	if !membership.IsAdmin {
		return nil, domain.ErrNotAdmin
	}

	return org, nil
}
