package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RatingRepository implements repository.RatingRepository on MongoDB.
type RatingRepository struct {
	coll *mongo.Collection
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{coll: db.Collection(ratingsCollection)}
}

// Create persists a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	_, err := r.coll.InsertOne(ctx, ratingDocument{
		ID:        rating.ID,
		RideID:    rating.RideID,
		RaterID:   rating.RaterID,
		RatedID:   rating.RatedID,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
	})
	return translateError(err)
}

// ListByRated retrieves every rating ever received by ratedID, newest first.
func (r *RatingRepository) ListByRated(ctx context.Context, ratedID string) ([]*domain.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"rated_id": ratedID}, opts)
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll[ratingDocument](ctx, cur)
	if err != nil {
		return nil, err
	}

	ratings := make([]*domain.Rating, 0, len(docs))
	for _, d := range docs {
		ratings = append(ratings, &domain.Rating{
			ID:        d.ID,
			RideID:    d.RideID,
			RaterID:   d.RaterID,
			RatedID:   d.RatedID,
			Rating:    d.Rating,
			Comment:   d.Comment,
			CreatedAt: d.CreatedAt,
		})
	}
	return ratings, nil
}

// Ensure RatingRepository implements repository.RatingRepository.
var _ repository.RatingRepository = (*RatingRepository)(nil)
