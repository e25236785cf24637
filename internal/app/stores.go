package app

import (
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/repository"
	mongostore "ridehail/internal/repository/mongo"
	"ridehail/internal/repository/postgres"
)

// Stores bundles one implementation of every repository.
type Stores struct {
	Users    repository.UserRepository
	Drivers  repository.DriverRepository
	Rides    repository.RideRepository
	Ratings  repository.RatingRepository
	Trips    repository.TripRepository
	Accounts repository.AccountRepository
}

// NewPostgresStores builds repositories on a PostgreSQL connection.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Users:    postgres.NewUserRepository(db),
		Drivers:  postgres.NewDriverRepository(db),
		Rides:    postgres.NewRideRepository(db),
		Ratings:  postgres.NewRatingRepository(db),
		Trips:    postgres.NewTripRepository(db),
		Accounts: postgres.NewAccountRepository(db),
	}
}

// NewMongoStores builds repositories on a MongoDB database.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:    mongostore.NewUserRepository(db),
		Drivers:  mongostore.NewDriverRepository(db),
		Rides:    mongostore.NewRideRepository(db),
		Ratings:  mongostore.NewRatingRepository(db),
		Trips:    mongostore.NewTripRepository(db),
		Accounts: mongostore.NewAccountRepository(db),
	}
}
