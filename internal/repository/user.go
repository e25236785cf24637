package repository

import (
	"context"

	"ridehail/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create adds a new user. Returns ErrDuplicate if the phone is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}
