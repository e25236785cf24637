package app

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/config"
	mongostore "ridehail/internal/repository/mongo"
)

// NewMongoDatabase connects to MongoDB and ensures the indexes exist.
func NewMongoDatabase(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	client, err := mongostore.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	db := client.Database(cfg.Database)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}
