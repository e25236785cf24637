package postgres

import (
	"context"
	"database/sql"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// Create persists a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, ride_id, rater_id, rated_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.RideID,
		rating.RaterID,
		rating.RatedID,
		rating.Rating,
		nullString(rating.Comment),
		rating.CreatedAt,
	)
	return translateError(err)
}

// ListByRated retrieves every rating ever received by ratedID, newest first.
func (r *RatingRepository) ListByRated(ctx context.Context, ratedID string) ([]*domain.Rating, error) {
	query := `
		SELECT id, ride_id, rater_id, rated_id, rating, COALESCE(comment, ''), created_at
		FROM ratings WHERE rated_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, ratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.RideID,
			&rating.RaterID,
			&rating.RatedID,
			&rating.Rating,
			&rating.Comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, &rating)
	}
	return ratings, rows.Err()
}

// Ensure RatingRepository implements repository.RatingRepository.
var _ repository.RatingRepository = (*RatingRepository)(nil)
