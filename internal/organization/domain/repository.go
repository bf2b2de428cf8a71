package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the organization store accessor. No business logic.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org Organization) error
	// GetByID returns (nil, nil) when the organization does not exist.
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	Update(ctx context.Context, org Organization) error
	Delete(ctx context.Context, id snowflake.ID) error
}
