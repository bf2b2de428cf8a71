package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/orgdesk/orgdesk/internal/member/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindByUserAndOrg(ctx context.Context, userID, orgID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		First(&member, "user_id = ? AND organization_id = ?", userID, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Find(&members, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Find(&members, "organization_id = ?", orgID).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Update(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"is_admin":  member.IsAdmin,
			"dept_name": member.DeptName,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Member{}, "id = ?", id).Error
}

func (r *repository) DeleteByOrganization(ctx context.Context, orgID snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Member{}, "organization_id = ?", orgID).Error
}
