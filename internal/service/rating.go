package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/observability"
	"ridehail/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

// RatingService stores ratings and keeps driver averages current.
type RatingService struct {
	ratingRepo    repository.RatingRepository
	rideRepo      repository.RideRepository
	driverService *DriverService
	notifier      *NotificationService
	logger        *slog.Logger
	now           func() time.Time
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	ratingRepo repository.RatingRepository,
	rideRepo repository.RideRepository,
	driverService *DriverService,
	notifier *NotificationService,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo:    ratingRepo,
		rideRepo:      rideRepo,
		driverService: driverService,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// SubmitRatingRequest contains the parameters for rating the other party of a ride.
type SubmitRatingRequest struct {
	RideID  string
	RaterID string
	RatedID string
	Rating  int
	Comment string
}

// Submit stores a rating, then recomputes the rated party's average over
// every rating it has received. The average is written back only when the
// rated party is a driver. Repeated ratings are not deduplicated.
func (s *RatingService) Submit(ctx context.Context, req SubmitRatingRequest) (*domain.Rating, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.RaterID == "" || req.RatedID == "" {
		return nil, ErrInvalidRatingParty
	}
	if req.Rating < minRating || req.Rating > maxRating {
		return nil, ErrInvalidRating
	}

	if _, err := s.rideRepo.GetByID(ctx, req.RideID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ID:        uuid.New().String(),
		RideID:    req.RideID,
		RaterID:   req.RaterID,
		RatedID:   req.RatedID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	observability.RatingsSubmitted.Inc()

	received, err := s.ratingRepo.ListByRated(ctx, req.RatedID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for %s: %w", req.RatedID, err)
	}
	average := AverageRating(received)

	isDriver, err := s.driverService.UpdateRating(ctx, req.RatedID, average)
	if err != nil {
		return nil, fmt.Errorf("update driver rating: %w", err)
	}

	s.logger.InfoContext(ctx, "rating submitted",
		"ride_id", req.RideID, "rated_id", req.RatedID, "rating", req.Rating,
		"average", average, "driver", isDriver)
	s.notifier.NotifyRatingCreated(ctx, rating, average)

	return rating, nil
}

// ListReceived returns every rating received by ratedID, newest first.
func (s *RatingService) ListReceived(ctx context.Context, ratedID string) ([]*domain.Rating, error) {
	if ratedID == "" {
		return nil, ErrInvalidRatingParty
	}
	return s.ratingRepo.ListByRated(ctx, ratedID)
}

// AverageRating is the mean of ratings rounded to one decimal, or 0 when empty.
func AverageRating(ratings []*domain.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return round1(float64(sum) / float64(len(ratings)))
}
