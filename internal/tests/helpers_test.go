package tests

import (
	"context"
	"testing"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/logging"
	"ridehail/internal/redis"
	"ridehail/internal/service"
)

// testEnv wires the services over in-memory repositories.
type testEnv struct {
	users     *MockUserRepository
	drivers   *MockDriverRepository
	rides     *MockRideRepository
	ratings   *MockRatingRepository
	trips     *MockTripRepository
	accounts  *MockAccountRepository
	codes     *redis.MemoryCodeStore
	publisher *MockPublisher

	driverService   *service.DriverService
	matchingService *service.MatchingService
	rideService     *service.RideService
	ratingService   *service.RatingService
	tripService     *service.TripService
	authService     *service.AuthService
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()

	env := &testEnv{
		users:     NewMockUserRepository(),
		drivers:   NewMockDriverRepository(),
		rides:     NewMockRideRepository(),
		ratings:   NewMockRatingRepository(),
		trips:     NewMockTripRepository(),
		codes:     redis.NewMemoryCodeStore(),
		publisher: NewMockPublisher(),
	}
	env.accounts = NewMockAccountRepository(env.users, env.drivers)

	logger := logging.Discard()
	notifier := service.NewNotificationService(env.publisher, logger)
	env.driverService = service.NewDriverService(env.drivers, env.accounts, nil, logger)
	env.matchingService = service.NewMatchingService(env.drivers, 5)
	env.rideService = service.NewRideService(
		env.rides, env.users, env.trips, env.driverService,
		service.MileFare{}, notifier,
		service.RideServiceConfig{StrictTransitions: strict},
		logger,
	)
	env.ratingService = service.NewRatingService(env.ratings, env.rides, env.driverService, notifier, logger)
	env.tripService = service.NewTripService(env.trips, env.driverService, logger)
	env.authService = service.NewAuthService(env.users, env.codes, env.driverService, 5*time.Minute, logger)
	return env
}

// addRider stores a rider user.
func (e *testEnv) addRider(id string) {
	e.users.AddUser(&domain.User{
		ID:       id,
		Phone:    "+251900" + id,
		Role:     domain.RoleRider,
		Language: domain.LanguageEnglish,
	})
}

// addDriver stores a driver user and its profile.
func (e *testEnv) addDriver(id string, online bool, loc *domain.Location) {
	e.users.AddUser(&domain.User{
		ID:       id,
		Phone:    "+251911" + id,
		Role:     domain.RoleDriver,
		Language: domain.LanguageEnglish,
	})
	e.drivers.AddDriver(&domain.Driver{
		ID:       id,
		Name:     "Driver " + id,
		Rating:   domain.DefaultDriverRating,
		IsOnline: online,
		Location: loc,
	})
}

// requestRide creates a ride for riderID and fails the test on error.
func (e *testEnv) requestRide(t *testing.T, riderID string) *domain.Ride {
	t.Helper()
	ride, err := e.rideService.RequestRide(context.Background(), service.RequestRideRequest{
		RiderID:     riderID,
		Pickup:      domain.Location{Latitude: 9.0300, Longitude: 38.7400, Address: "Bole"},
		Destination: domain.Location{Latitude: 9.0100, Longitude: 38.7600, Address: "Piassa"},
	})
	if err != nil {
		t.Fatalf("unexpected error requesting ride: %v", err)
	}
	return ride
}
