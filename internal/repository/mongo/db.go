// Package mongo stores the ride-hailing documents in MongoDB. Collections and
// field names follow the original document layout (users, drivers,
// driver_locations, rides, ratings, trips).
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ridehail/internal/repository"
)

const (
	usersCollection           = "users"
	driversCollection         = "drivers"
	driverLocationsCollection = "driver_locations"
	ridesCollection           = "rides"
	ratingsCollection         = "ratings"
	tripsCollection           = "trips"
)

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// phone index is what turns a second registration into ErrDuplicate.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		driversCollection: {
			{Keys: bson.D{{Key: "is_online", Value: 1}}},
		},
		driverLocationsCollection: {
			{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		ridesCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "rider_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ratingsCollection: {
			{Keys: bson.D{{Key: "rated_id", Value: 1}}},
		},
		tripsCollection: {
			{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// expectMatch turns an update that matched nothing into ErrNotFound.
func expectMatch(result *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// decodeAll drains cur into a slice of T.
func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}
