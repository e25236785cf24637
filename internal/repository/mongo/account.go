package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// AccountRepository implements repository.AccountRepository on MongoDB.
// Standalone servers have no multi-document transactions, so a failed
// profile insert is undone by deleting the user document.
type AccountRepository struct {
	users   *mongo.Collection
	drivers *mongo.Collection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		users:   db.Collection(usersCollection),
		drivers: db.Collection(driversCollection),
	}
}

// CreateDriverAccount inserts the user, then the driver, removing the user
// again if the driver insert fails.
func (r *AccountRepository) CreateDriverAccount(ctx context.Context, user *domain.User, driver *domain.Driver) error {
	if _, err := r.users.InsertOne(ctx, newUserDocument(user)); err != nil {
		return translateError(err)
	}

	if _, err := r.drivers.InsertOne(ctx, newDriverDocument(driver)); err != nil {
		if _, delErr := r.users.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": user.ID}); delErr != nil {
			return fmt.Errorf("%w (removing user %s: %v)", translateError(err), user.ID, delErr)
		}
		return translateError(err)
	}
	return nil
}

// Ensure AccountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*AccountRepository)(nil)
