package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// DriverRepository implements repository.DriverRepository on MongoDB.
type DriverRepository struct {
	drivers   *mongo.Collection
	locations *mongo.Collection
}

// NewDriverRepository creates a new DriverRepository.
func NewDriverRepository(db *mongo.Database) *DriverRepository {
	return &DriverRepository{
		drivers:   db.Collection(driversCollection),
		locations: db.Collection(driverLocationsCollection),
	}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	_, err := r.drivers.InsertOne(ctx, newDriverDocument(driver))
	return translateError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	var doc driverDocument
	if err := r.drivers.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

// ListOnline retrieves every driver currently flagged online.
func (r *DriverRepository) ListOnline(ctx context.Context) ([]*domain.Driver, error) {
	cur, err := r.drivers.Find(ctx, bson.M{"is_online": true})
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll[driverDocument](ctx, cur)
	if err != nil {
		return nil, err
	}

	drivers := make([]*domain.Driver, 0, len(docs))
	for _, doc := range docs {
		drivers = append(drivers, doc.toDomain())
	}
	return drivers, nil
}

// SetOnline toggles the online flag.
func (r *DriverRepository) SetOnline(ctx context.Context, id string, online bool) error {
	return r.set(ctx, id, bson.M{"is_online": online, "updated_at": time.Now().UTC()})
}

// UpdateLocation records the driver's latest location.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	return r.set(ctx, id, bson.M{
		"current_location":    newLocationDocument(loc),
		"location_updated_at": at,
		"updated_at":          at,
	})
}

// AppendLocationHistory adds an entry to the driver's location history.
func (r *DriverRepository) AppendLocationHistory(ctx context.Context, sample *domain.LocationSample) error {
	_, err := r.locations.InsertOne(ctx, locationSampleDocument{
		ID:        sample.ID,
		DriverID:  sample.DriverID,
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Speed:     sample.Speed,
		Heading:   sample.Heading,
		Timestamp: sample.RecordedAt,
	})
	return err
}

// UpdateRating overwrites the driver's average rating.
func (r *DriverRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	return r.set(ctx, id, bson.M{"rating": rating, "updated_at": time.Now().UTC()})
}

// AddCompletedRide increments the ride count by one and earnings by fare.
func (r *DriverRepository) AddCompletedRide(ctx context.Context, id string, fare float64) error {
	update := bson.M{
		"$inc": bson.M{"total_rides": 1, "total_earnings": fare},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	return expectMatch(r.drivers.UpdateOne(ctx, bson.M{"_id": id}, update))
}

func (r *DriverRepository) set(ctx context.Context, id string, fields bson.M) error {
	return expectMatch(r.drivers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields}))
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
