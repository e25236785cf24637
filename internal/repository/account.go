package repository

import (
	"context"

	"ridehail/internal/domain"
)

// AccountRepository creates multi-record accounts.
type AccountRepository interface {
	// CreateDriverAccount stores a driver-role user and its driver profile as
	// one unit: afterwards either both records exist or neither does.
	// Returns ErrDuplicate if the phone is taken.
	CreateDriverAccount(ctx context.Context, user *domain.User, driver *domain.Driver) error
}
