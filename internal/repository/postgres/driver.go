package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, COALESCE(name, ''), COALESCE(phone, ''), vehicle, latitude, longitude, COALESCE(address, ''),
	location_updated_at, rating, is_online, total_rides, total_earnings, created_at, updated_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, vehicle, rating, is_online, total_rides, total_earnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	vehicle, err := encodeVehicle(driver.Vehicle)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		driver.ID,
		nullString(driver.Name),
		nullString(driver.Phone),
		vehicle,
		driver.Rating,
		driver.IsOnline,
		driver.TotalRides,
		driver.TotalEarnings,
		driver.CreatedAt,
		driver.UpdatedAt,
	)
	return translateError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	return scanDriver(r.q.QueryRowContext(ctx, query, id))
}

// ListOnline retrieves every driver currently flagged online.
func (r *DriverRepository) ListOnline(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE is_online = TRUE`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// SetOnline toggles the online flag.
func (r *DriverRepository) SetOnline(ctx context.Context, id string, online bool) error {
	query := `UPDATE drivers SET is_online = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, online, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// UpdateLocation records the driver's latest location.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	query := `
		UPDATE drivers
		SET latitude = $1, longitude = $2, address = $3, location_updated_at = $4, updated_at = $4
		WHERE id = $5
	`
	result, err := r.q.ExecContext(ctx, query, loc.Latitude, loc.Longitude, nullString(loc.Address), at, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// AppendLocationHistory adds an entry to the driver's location history.
func (r *DriverRepository) AppendLocationHistory(ctx context.Context, sample *domain.LocationSample) error {
	query := `
		INSERT INTO driver_locations (id, driver_id, latitude, longitude, speed, heading, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		sample.ID,
		sample.DriverID,
		sample.Latitude,
		sample.Longitude,
		nullFloat(sample.Speed),
		nullFloat(sample.Heading),
		sample.RecordedAt,
	)
	return err
}

// UpdateRating overwrites the driver's average rating.
func (r *DriverRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	query := `UPDATE drivers SET rating = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, rating, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// AddCompletedRide increments the ride count by one and earnings by fare.
func (r *DriverRepository) AddCompletedRide(ctx context.Context, id string, fare float64) error {
	query := `
		UPDATE drivers
		SET total_rides = total_rides + 1, total_earnings = total_earnings + $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.q.ExecContext(ctx, query, fare, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var vehicle []byte
	var lat, lng sql.NullFloat64
	var address string
	var locationUpdatedAt sql.NullTime

	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&vehicle,
		&lat,
		&lng,
		&address,
		&locationUpdatedAt,
		&driver.Rating,
		&driver.IsOnline,
		&driver.TotalRides,
		&driver.TotalEarnings,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	if len(vehicle) > 0 {
		var v domain.Vehicle
		if err := json.Unmarshal(vehicle, &v); err != nil {
			return nil, fmt.Errorf("decode vehicle for driver %s: %w", driver.ID, err)
		}
		driver.Vehicle = &v
	}
	if lat.Valid && lng.Valid {
		driver.Location = &domain.Location{Latitude: lat.Float64, Longitude: lng.Float64, Address: address}
	}
	if locationUpdatedAt.Valid {
		driver.LocationUpdatedAt = locationUpdatedAt.Time
	}

	return &driver, nil
}

// encodeVehicle returns the JSONB text for v, or NULL when absent.
// lib/pq sends []byte as bytea, so the document goes over the wire as a string.
func encodeVehicle(v *domain.Vehicle) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode vehicle: %w", err)
	}
	return string(data), nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
