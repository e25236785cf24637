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

// RideServiceConfig holds lifecycle options.
type RideServiceConfig struct {
	// StrictTransitions makes UpdateStatus require the exact next status
	// (or a cancellation of a non-terminal ride).
	StrictTransitions bool
}

// RideService manages the ride lifecycle.
type RideService struct {
	rideRepo      repository.RideRepository
	userRepo      repository.UserRepository
	tripRepo      repository.TripRepository
	driverService *DriverService
	fares         FareCalculator
	notifier      *NotificationService
	config        RideServiceConfig
	logger        *slog.Logger
	now           func() time.Time
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	tripRepo repository.TripRepository,
	driverService *DriverService,
	fares FareCalculator,
	notifier *NotificationService,
	config RideServiceConfig,
	logger *slog.Logger,
) *RideService {
	return &RideService{
		rideRepo:      rideRepo,
		userRepo:      userRepo,
		tripRepo:      tripRepo,
		driverService: driverService,
		fares:         fares,
		notifier:      notifier,
		config:        config,
		logger:        logger,
		now:           time.Now,
	}
}

// FareModel names the fare calculator in use.
func (s *RideService) FareModel() string {
	return s.fares.Name()
}

// RequestRideRequest contains the parameters for requesting a ride.
type RequestRideRequest struct {
	RiderID     string
	Pickup      domain.Location
	Destination domain.Location
}

// RequestRide creates a ride in the requested state with its fare,
// distance and duration fixed.
func (s *RideService) RequestRide(ctx context.Context, req RequestRideRequest) (*domain.Ride, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.RiderID); err != nil {
		return nil, err
	}

	distance := Distance(req.Pickup, req.Destination)
	ride := &domain.Ride{
		ID:          uuid.New().String(),
		RiderID:     req.RiderID,
		Pickup:      req.Pickup,
		Destination: req.Destination,
		Status:      domain.RideStatusRequested,
		Fare:        s.fares.Fare(distance),
		Distance:    distance,
		Duration:    EstimateDuration(distance),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	observability.RidesRequested.Inc()
	s.logger.InfoContext(ctx, "ride requested", "ride_id", ride.ID, "rider_id", ride.RiderID, "fare", ride.Fare)
	s.notifier.NotifyRideRequested(ctx, ride)

	return ride, nil
}

func (s *RideService) validateRequest(req RequestRideRequest) error {
	if req.RiderID == "" {
		return ErrInvalidRiderID
	}
	if !req.Pickup.Valid() {
		return ErrInvalidPickupLocation
	}
	if !req.Destination.Valid() {
		return ErrInvalidDestinationLocation
	}
	return nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// ListAvailable returns rides still waiting for a driver, newest first.
func (s *RideService) ListAvailable(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.ListByStatus(ctx, domain.RideStatusRequested)
}

// ListByRider returns a rider's rides, newest first.
func (s *RideService) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.rideRepo.ListByRider(ctx, riderID)
}

// ListByDriver returns a driver's rides, newest first.
func (s *RideService) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.rideRepo.ListByDriver(ctx, driverID)
}

// AcceptRide assigns driverID to a requested ride. The store applies the
// assignment only while the ride is requested and unassigned; the ride is
// then re-read and the call succeeds only if the recorded driver is ours.
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if _, err := s.driverService.Get(ctx, driverID); err != nil {
		return nil, err
	}

	assigned, err := s.rideRepo.AssignDriver(ctx, rideID, driverID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != driverID {
		observability.RideAccepts.WithLabelValues("lost_race").Inc()
		if ride.DriverID == "" {
			return nil, ErrRideNotInRequestedState
		}
		s.logger.InfoContext(ctx, "ride accept lost", "ride_id", rideID, "driver_id", driverID, "winner_id", ride.DriverID)
		return nil, ErrRideAlreadyTaken
	}

	if assigned {
		observability.RideAccepts.WithLabelValues("accepted").Inc()
		s.logger.InfoContext(ctx, "ride accepted", "ride_id", rideID, "driver_id", driverID)
		s.notifier.NotifyRideAccepted(ctx, ride)
	}
	return ride, nil
}

// UpdateStatus applies a generic status change. requested and accepted are
// only reachable through RequestRide and AcceptRide. Ordering is enforced
// only when StrictTransitions is set.
//
// The first move into completed credits the driver and records a trip.
func (s *RideService) UpdateStatus(ctx context.Context, rideID string, status domain.RideStatus) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if !status.Valid() {
		return nil, ErrInvalidRideStatus
	}
	if status == domain.RideStatusRequested || status == domain.RideStatusAccepted {
		return nil, ErrInvalidTransition
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.config.StrictTransitions && !domain.NextInOrder(ride.Status, status) {
		return nil, ErrInvalidTransition
	}

	from := ride.Status
	if status == domain.RideStatusCompleted {
		if err := s.complete(ctx, ride); err != nil {
			return nil, err
		}
	} else {
		if err := s.rideRepo.UpdateStatus(ctx, rideID, status); err != nil {
			return nil, err
		}
		ride.Status = status
	}

	observability.RideStatusUpdates.WithLabelValues(string(status)).Inc()
	s.logger.InfoContext(ctx, "ride status updated", "ride_id", rideID, "from", from, "to", status)
	s.notifier.NotifyRideStatusChanged(ctx, ride, from)

	return ride, nil
}

// complete moves the ride to completed. Only the call that records the
// completion time settles the ride, so concurrent or repeated completes pay
// the driver once.
func (s *RideService) complete(ctx context.Context, ride *domain.Ride) error {
	completedAt := s.now().UTC()
	recorded, err := s.rideRepo.MarkCompleted(ctx, ride.ID, completedAt)
	if err != nil {
		return err
	}
	if !recorded {
		if err := s.rideRepo.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted); err != nil {
			return err
		}
		ride.Status = domain.RideStatusCompleted
		return nil
	}

	ride.Status = domain.RideStatusCompleted
	ride.CompletedAt = completedAt
	return s.settle(ctx, ride)
}

// settle credits the assigned driver and records the trip for earnings.
func (s *RideService) settle(ctx context.Context, ride *domain.Ride) error {
	if ride.DriverID == "" {
		return nil
	}

	if err := s.driverService.AddCompletedRide(ctx, ride.DriverID, ride.Fare); err != nil {
		return fmt.Errorf("credit driver %s: %w", ride.DriverID, err)
	}

	start := ride.AcceptedAt
	if start.IsZero() {
		start = ride.CreatedAt
	}
	trip := &domain.Trip{
		ID:        uuid.New().String(),
		DriverID:  ride.DriverID,
		RideID:    ride.ID,
		Fare:      ride.Fare,
		StartTime: start,
		EndTime:   ride.CompletedAt,
		Distance:  ride.Distance,
		CreatedAt: ride.CompletedAt,
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return fmt.Errorf("record trip for ride %s: %w", ride.ID, err)
	}
	return nil
}
