package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridehail/internal/config"
	"ridehail/internal/events"
	"ridehail/internal/handler"
	internalRedis "ridehail/internal/redis"
	"ridehail/internal/service"
)

// Deps are the external resources the application runs on.
type Deps struct {
	Config      *config.Config
	Stores      Stores
	RedisClient *redis.Client // optional
	Publisher   events.Publisher
	NewRelicApp *newrelic.Application // optional
	Logger      *slog.Logger
}

// NewHandler wires services and handlers over deps and returns the router.
func NewHandler(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config

	fares, err := service.NewFareCalculator(cfg.Pricing.FareModel)
	if err != nil {
		return nil, err
	}

	// Redis-backed stores when available, process-local fallbacks otherwise.
	var codeStore internalRedis.CodeStoreInterface = internalRedis.NewMemoryCodeStore()
	var responseStore internalRedis.ResponseStoreInterface = internalRedis.NewMemoryResponseStore()
	var driverCache internalRedis.DriverCacheInterface
	if deps.RedisClient != nil {
		codeStore = internalRedis.NewCodeStore(deps.RedisClient)
		responseStore = internalRedis.NewResponseStore(deps.RedisClient)
		driverCache = internalRedis.NewCacheStore(deps.RedisClient)
	}

	// Initialize services.
	notificationService := service.NewNotificationService(deps.Publisher, deps.Logger)
	driverService := service.NewDriverService(deps.Stores.Drivers, deps.Stores.Accounts, driverCache, deps.Logger)
	matchingService := service.NewMatchingService(deps.Stores.Drivers, cfg.Pricing.NearbyRadiusKm)
	rideService := service.NewRideService(
		deps.Stores.Rides,
		deps.Stores.Users,
		deps.Stores.Trips,
		driverService,
		fares,
		notificationService,
		service.RideServiceConfig{StrictTransitions: cfg.Rides.StrictTransitions},
		deps.Logger,
	)
	ratingService := service.NewRatingService(deps.Stores.Ratings, deps.Stores.Rides, driverService, notificationService, deps.Logger)
	tripService := service.NewTripService(deps.Stores.Trips, driverService, deps.Logger)
	authService := service.NewAuthService(deps.Stores.Users, codeStore, driverService, cfg.Auth.CodeTTL, deps.Logger)

	// Initialize handlers.
	return NewRouter(RouterDeps{
		AuthHandler:   handler.NewAuthHandler(authService, cfg.Auth.ExposeCode),
		RideHandler:   handler.NewRideHandler(rideService),
		DriverHandler: handler.NewDriverHandler(driverService, matchingService, rideService),
		TripHandler:   handler.NewTripHandler(tripService),
		RatingHandler: handler.NewRatingHandler(ratingService),
		HealthHandler: handler.NewHealthHandler(fares.Name(), cfg.Store.Backend),
		ResponseStore: responseStore,
		NewRelicApp:   deps.NewRelicApp,
		Logger:        deps.Logger,
	}), nil
}
