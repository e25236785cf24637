package repository

import (
	"context"

	"ridehail/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating.
	Create(ctx context.Context, rating *domain.Rating) error

	// ListByRated retrieves every rating ever received by ratedID, newest first.
	ListByRated(ctx context.Context, ratedID string) ([]*domain.Rating, error)
}
