package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateDriverAccount inserts the user and driver rows in one transaction.
func (r *AccountRepository) CreateDriverAccount(ctx context.Context, user *domain.User, driver *domain.Driver) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := NewUserRepositoryWithTx(tx).Create(ctx, user); err != nil {
		return err
	}
	if err := NewDriverRepositoryWithTx(tx).Create(ctx, driver); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ensure AccountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*AccountRepository)(nil)
