package app

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ridehail/internal/handler"
	"ridehail/internal/middleware"
	"ridehail/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler   *handler.AuthHandler
	RideHandler   *handler.RideHandler
	DriverHandler *handler.DriverHandler
	TripHandler   *handler.TripHandler
	RatingHandler *handler.RatingHandler
	HealthHandler *handler.HealthHandler
	ResponseStore redis.ResponseStoreInterface // nil disables idempotency replay
	NewRelicApp   *newrelic.Application
	Logger        *slog.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Observability(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicAnnotate())
	}

	if deps.ResponseStore != nil {
		router.Use(middleware.Idempotency(deps.ResponseStore, deps.Logger))
	}

	router.GET("/health", deps.HealthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Ride hailing API"})
		})
		api.GET("/health", deps.HealthHandler.Health)

		// Auth routes.
		auth := api.Group("/auth")
		{
			auth.POST("/send-code", deps.AuthHandler.SendCode)
			auth.POST("/verify-code", deps.AuthHandler.VerifyCode)
			auth.POST("/register", deps.AuthHandler.Register)
			auth.GET("/user/:phone", deps.AuthHandler.GetUser)
		}

		// Ride routes.
		rides := api.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("/available", deps.RideHandler.ListAvailable)
			rides.GET("/rider/:id", deps.RideHandler.ListByRider)
			rides.GET("/driver/:id", deps.RideHandler.ListByDriver)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.PUT("/:id", deps.RideHandler.UpdateRide)
		}

		// Driver routes.
		drivers := api.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.PUT("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/location", deps.DriverHandler.RecordLocation)
			drivers.PUT("/:id/status", deps.DriverHandler.UpdateStatus)
			drivers.POST("/:id/online", deps.DriverHandler.GoOnline)
			drivers.POST("/:id/offline", deps.DriverHandler.GoOffline)
			drivers.PUT("/:id/accept-ride", deps.DriverHandler.AcceptRide)

			drivers.POST("/:id/trips", deps.TripHandler.CreateTrip)
			drivers.GET("/:id/trips", deps.TripHandler.ListTrips)
			drivers.GET("/:id/earnings", deps.TripHandler.Earnings)
		}

		// Rating routes.
		ratings := api.Group("/ratings")
		{
			ratings.POST("", deps.RatingHandler.CreateRating)
			ratings.GET("/:id", deps.RatingHandler.ListRatings)
		}
	}

	return router
}
