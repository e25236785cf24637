package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// TripRepository implements repository.TripRepository on MongoDB.
type TripRepository struct {
	coll *mongo.Collection
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(db *mongo.Database) *TripRepository {
	return &TripRepository{coll: db.Collection(tripsCollection)}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	_, err := r.coll.InsertOne(ctx, tripDocument{
		ID:        trip.ID,
		DriverID:  trip.DriverID,
		RideID:    trip.RideID,
		Fare:      trip.Fare,
		StartTime: timePtr(trip.StartTime),
		EndTime:   timePtr(trip.EndTime),
		Distance:  trip.Distance,
		CreatedAt: trip.CreatedAt,
	})
	return translateError(err)
}

// ListByDriverBetween retrieves a driver's trips created within [start, end], oldest first.
func (r *TripRepository) ListByDriverBetween(ctx context.Context, driverID string, start, end time.Time) ([]*domain.Trip, error) {
	filter := bson.M{
		"driver_id":  driverID,
		"created_at": bson.M{"$gte": start, "$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll[tripDocument](ctx, cur)
	if err != nil {
		return nil, err
	}

	trips := make([]*domain.Trip, 0, len(docs))
	for _, d := range docs {
		trips = append(trips, &domain.Trip{
			ID:        d.ID,
			DriverID:  d.DriverID,
			RideID:    d.RideID,
			Fare:      d.Fare,
			StartTime: timeValue(d.StartTime),
			EndTime:   timeValue(d.EndTime),
			Distance:  d.Distance,
			CreatedAt: d.CreatedAt,
		})
	}
	return trips, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
