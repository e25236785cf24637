package postgres

import (
	"context"
	"database/sql"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, phone, role, language, profile_name, profile_avatar, has_profile, created_at`

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var name, avatar string
	if user.Profile != nil {
		name, avatar = user.Profile.Name, user.Profile.Avatar
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Phone,
		user.Role,
		user.Language,
		nullString(name),
		nullString(avatar),
		user.Profile != nil,
		user.CreatedAt,
	)
	return translateError(err)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, phone))
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var name, avatar sql.NullString
	var hasProfile bool

	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Role,
		&user.Language,
		&name,
		&avatar,
		&hasProfile,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	if hasProfile {
		user.Profile = &domain.Profile{Name: name.String, Avatar: avatar.String}
	}
	return &user, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
