package repository

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// ListByDriverBetween retrieves a driver's trips created within
	// [start, end], oldest first.
	ListByDriverBetween(ctx context.Context, driverID string, start, end time.Time) ([]*domain.Trip, error)
}
