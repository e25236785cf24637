package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// UserRepository implements repository.UserRepository on MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, newUserDocument(user))
	return translateError(err)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
