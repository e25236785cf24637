package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"ridehail/internal/app"
	"ridehail/internal/config"
	"ridehail/internal/events"
	"ridehail/internal/logging"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := logging.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", "error", err)
		} else {
			logger.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	// Open the configured document store.
	var stores app.Stores
	switch cfg.Store.Backend {
	case config.StoreBackendMongo:
		var client *mongo.Client
		var db *mongo.Database
		client, db, err = app.NewMongoDatabase(ctx, cfg.Mongo)
		if err != nil {
			fatal(logger, "failed to connect to mongo", err)
		}
		defer client.Disconnect(context.Background())
		stores = app.NewMongoStores(db)
		logger.Info("Connected to MongoDB", "database", cfg.Mongo.Database)
	default:
		var db *sql.DB
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			fatal(logger, "failed to connect to database", err)
		}
		defer db.Close()
		stores = app.NewPostgresStores(db)
		logger.Info("Connected to PostgreSQL")
	}

	// Initialize Redis with New Relic instrumentation.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			fatal(logger, "failed to connect to redis", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis")
	}

	// Ride events go to Kafka when brokers are configured.
	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info("Publishing ride events to Kafka", "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	gin.SetMode(gin.ReleaseMode)
	router, err := app.NewHandler(app.Deps{
		Config:      cfg,
		Stores:      stores,
		RedisClient: redisClient,
		Publisher:   publisher,
		NewRelicApp: nrApp,
		Logger:      logger,
	})
	if err != nil {
		fatal(logger, "failed to wire application", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port, "fare_model", cfg.Pricing.FareModel, "store", cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}
	logger.Info("Server exited")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
