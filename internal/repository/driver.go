package repository

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// ListOnline retrieves every driver currently flagged online.
	ListOnline(ctx context.Context) ([]*domain.Driver, error)

	// SetOnline toggles the online flag.
	SetOnline(ctx context.Context, id string, online bool) error

	// UpdateLocation records the driver's latest location.
	UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error

	// AppendLocationHistory adds an entry to the driver's location history.
	AppendLocationHistory(ctx context.Context, sample *domain.LocationSample) error

	// UpdateRating overwrites the driver's average rating.
	UpdateRating(ctx context.Context, id string, rating float64) error

	// AddCompletedRide increments the ride count by one and earnings by fare.
	AddCompletedRide(ctx context.Context, id string, fare float64) error
}
