package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/events"
	"ridehail/internal/observability"
)

// NotificationService turns lifecycle changes into published events.
// Delivery is best-effort: a failed publish is logged and counted but never
// fails the caller's request.
type NotificationService struct {
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher events.Publisher, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// NotifyRideRequested announces a new ride waiting for a driver.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) {
	s.send(ctx, events.TypeRideRequested, ride.ID, map[string]any{
		"rideId":   ride.ID,
		"riderId":  ride.RiderID,
		"pickup":   map[string]float64{"latitude": ride.Pickup.Latitude, "longitude": ride.Pickup.Longitude},
		"fare":     ride.Fare,
		"distance": ride.Distance,
	})
}

// NotifyRideAccepted tells the rider which driver took the ride.
func (s *NotificationService) NotifyRideAccepted(ctx context.Context, ride *domain.Ride) {
	s.send(ctx, events.TypeRideAccepted, ride.ID, map[string]any{
		"rideId":   ride.ID,
		"riderId":  ride.RiderID,
		"driverId": ride.DriverID,
	})
}

// NotifyRideStatusChanged announces a generic status update.
func (s *NotificationService) NotifyRideStatusChanged(ctx context.Context, ride *domain.Ride, from domain.RideStatus) {
	s.send(ctx, events.TypeRideStatusChanged, ride.ID, map[string]any{
		"rideId":   ride.ID,
		"riderId":  ride.RiderID,
		"driverId": ride.DriverID,
		"from":     from,
		"to":       ride.Status,
	})
}

// NotifyRatingCreated announces a stored rating and the rated party's new average.
func (s *NotificationService) NotifyRatingCreated(ctx context.Context, rating *domain.Rating, average float64) {
	s.send(ctx, events.TypeRatingCreated, rating.RideID, map[string]any{
		"ratingId": rating.ID,
		"rideId":   rating.RideID,
		"raterId":  rating.RaterID,
		"ratedId":  rating.RatedID,
		"rating":   rating.Rating,
		"average":  average,
	})
}

func (s *NotificationService) send(ctx context.Context, typ events.Type, key string, data map[string]any) {
	if s == nil || s.publisher == nil {
		return
	}

	event := events.Event{
		ID:         uuid.New().String(),
		Type:       typ,
		Key:        key,
		Data:       data,
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		observability.EventsPublished.WithLabelValues(string(typ), "error").Inc()
		s.logger.WarnContext(ctx, "publish event failed", "type", typ, "key", key, "error", err)
		return
	}
	observability.EventsPublished.WithLabelValues(string(typ), "ok").Inc()
}
