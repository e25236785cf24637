package repository

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// ListByStatus retrieves rides in the given status, newest first.
	ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error)

	// ListByRider retrieves a rider's rides, newest first.
	ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// ListByDriver retrieves a driver's rides, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// AssignDriver sets the driver and moves the ride to accepted, but only
	// if the ride is still requested with no driver. Reports whether a
	// document matched; a false result is indistinguishable from a lost race.
	AssignDriver(ctx context.Context, rideID, driverID string, at time.Time) (bool, error)

	// UpdateStatus writes a new status.
	UpdateStatus(ctx context.Context, rideID string, status domain.RideStatus) error

	// MarkCompleted moves the ride to completed and stamps the completion
	// time, but only if no completion time is recorded yet. Reports whether
	// this call recorded it.
	MarkCompleted(ctx context.Context, rideID string, at time.Time) (bool, error)
}
