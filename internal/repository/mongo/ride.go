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

// RideRepository implements repository.RideRepository on MongoDB.
type RideRepository struct {
	coll *mongo.Collection
}

// NewRideRepository creates a new RideRepository.
func NewRideRepository(db *mongo.Database) *RideRepository {
	return &RideRepository{coll: db.Collection(ridesCollection)}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	_, err := r.coll.InsertOne(ctx, newRideDocument(ride))
	return translateError(err)
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	var doc rideDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

// ListByStatus retrieves rides in the given status, newest first.
func (r *RideRepository) ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

// ListByRider retrieves a rider's rides, newest first.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	return r.find(ctx, bson.M{"rider_id": riderID})
}

// ListByDriver retrieves a driver's rides, newest first.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	return r.find(ctx, bson.M{"driver_id": driverID})
}

// AssignDriver claims a requested, unassigned ride for driverID. The filter
// carries the precondition, so only one concurrent writer can match.
func (r *RideRepository) AssignDriver(ctx context.Context, rideID, driverID string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":       rideID,
		"status":    string(domain.RideStatusRequested),
		"driver_id": nil,
	}
	update := bson.M{"$set": bson.M{
		"driver_id":   driverID,
		"status":      string(domain.RideStatusAccepted),
		"accepted_at": at,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// UpdateStatus writes a new status.
func (r *RideRepository) UpdateStatus(ctx context.Context, rideID string, status domain.RideStatus) error {
	update := bson.M{"$set": bson.M{"status": string(status)}}
	return expectMatch(r.coll.UpdateOne(ctx, bson.M{"_id": rideID}, update))
}

// MarkCompleted completes the ride if it carries no completion time yet.
func (r *RideRepository) MarkCompleted(ctx context.Context, rideID string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":          rideID,
		"completed_at": nil,
	}
	update := bson.M{"$set": bson.M{
		"status":       string(domain.RideStatusCompleted),
		"completed_at": at,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (r *RideRepository) find(ctx context.Context, filter bson.M) ([]*domain.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll[rideDocument](ctx, cur)
	if err != nil {
		return nil, err
	}

	rides := make([]*domain.Ride, 0, len(docs))
	for _, doc := range docs {
		rides = append(rides, doc.toDomain())
	}
	return rides, nil
}

// Ensure RideRepository implements repository.RideRepository.
var _ repository.RideRepository = (*RideRepository)(nil)
