package postgres

import (
	"context"
	"database/sql"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, ride_id, fare, start_time, end_time, distance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		nullString(trip.RideID),
		trip.Fare,
		nullTime(trip.StartTime),
		nullTime(trip.EndTime),
		trip.Distance,
		trip.CreatedAt,
	)
	return translateError(err)
}

// ListByDriverBetween retrieves a driver's trips created within [start, end], oldest first.
func (r *TripRepository) ListByDriverBetween(ctx context.Context, driverID string, start, end time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT id, driver_id, COALESCE(ride_id, ''), fare, start_time, end_time, distance, created_at
		FROM trips
		WHERE driver_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		var startTime, endTime sql.NullTime

		if err := rows.Scan(
			&trip.ID,
			&trip.DriverID,
			&trip.RideID,
			&trip.Fare,
			&startTime,
			&endTime,
			&trip.Distance,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}

		if startTime.Valid {
			trip.StartTime = startTime.Time
		}
		if endTime.Valid {
			trip.EndTime = endTime.Time
		}
		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
