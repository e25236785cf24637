package postgres

import (
	"context"
	"database/sql"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup_lat, pickup_lng, COALESCE(pickup_address, ''),
	destination_lat, destination_lng, COALESCE(destination_address, ''),
	status, fare, distance, duration, created_at, accepted_at, completed_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, driver_id, pickup_lat, pickup_lng, pickup_address,
			destination_lat, destination_lng, destination_address,
			status, fare, distance, duration, created_at, accepted_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Pickup.Latitude,
		ride.Pickup.Longitude,
		nullString(ride.Pickup.Address),
		ride.Destination.Latitude,
		ride.Destination.Longitude,
		nullString(ride.Destination.Address),
		ride.Status,
		ride.Fare,
		ride.Distance,
		ride.Duration,
		ride.CreatedAt,
		nullTime(ride.AcceptedAt),
		nullTime(ride.CompletedAt),
	)
	return translateError(err)
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRide(r.q.QueryRowContext(ctx, query, id))
}

// ListByStatus retrieves rides in the given status, newest first.
func (r *RideRepository) ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

// ListByRider retrieves a rider's rides, newest first.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE rider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, riderID)
}

// ListByDriver retrieves a driver's rides, newest first.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

// AssignDriver sets the driver and moves the ride to accepted if, and only
// if, the ride is still requested and unassigned. The precondition lives in
// the WHERE clause so concurrent callers serialize on the row lock.
func (r *RideRepository) AssignDriver(ctx context.Context, rideID, driverID string, at time.Time) (bool, error) {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, accepted_at = $3
		WHERE id = $4 AND status = $5 AND driver_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		driverID,
		domain.RideStatusAccepted,
		at,
		rideID,
		domain.RideStatusRequested,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// UpdateStatus writes a new status.
func (r *RideRepository) UpdateStatus(ctx context.Context, rideID string, status domain.RideStatus) error {
	query := `UPDATE rides SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, rideID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// MarkCompleted completes the ride if completed_at is still NULL. Concurrent
// callers race on the row; only one sees a row affected.
func (r *RideRepository) MarkCompleted(ctx context.Context, rideID string, at time.Time) (bool, error) {
	query := `
		UPDATE rides SET status = $1, completed_at = $2
		WHERE id = $3 AND completed_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusCompleted, at, rideID)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString
	var acceptedAt, completedAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Pickup.Latitude,
		&ride.Pickup.Longitude,
		&ride.Pickup.Address,
		&ride.Destination.Latitude,
		&ride.Destination.Longitude,
		&ride.Destination.Address,
		&ride.Status,
		&ride.Fare,
		&ride.Distance,
		&ride.Duration,
		&ride.CreatedAt,
		&acceptedAt,
		&completedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if acceptedAt.Valid {
		ride.AcceptedAt = acceptedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}

	return &ride, nil
}

// Ensure RideRepository implements repository.RideRepository.
var _ repository.RideRepository = (*RideRepository)(nil)
