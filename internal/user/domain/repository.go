package domain

import "context"

// Repository is the read-only user lookup accessor.
type Repository interface {
	// FindByEmail returns (nil, nil) when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
