package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMongo    = "mongo"
)

// Fare models.
const (
	FareModelMile = "mile"
	FareModelFlat = "flat"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Kafka    KafkaConfig
	Pricing  PricingConfig
	Rides    RidesConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the document store implementation.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MongoConfig holds MongoDB configuration.
type MongoConfig struct {
	URL      string
	Database string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	PoolSize    int // 0 keeps the client default
	DialTimeout time.Duration
	CallTimeout time.Duration // read and write deadline per command
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// KafkaConfig holds the ride event publisher configuration.
// No brokers means events are only logged.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// PricingConfig holds fare and matching parameters.
type PricingConfig struct {
	FareModel      string
	NearbyRadiusKm float64
}

// RidesConfig holds ride lifecycle options.
type RidesConfig struct {
	StrictTransitions bool
}

// AuthConfig holds verification code options.
type AuthConfig struct {
	CodeTTL    time.Duration
	ExposeCode bool
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8001"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ride_hailing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URL:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "ride_hailing"),
		},
		Redis: RedisConfig{
			Enabled:     getBoolEnv("REDIS_ENABLED", false),
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			PoolSize:    getIntEnv("REDIS_POOL_SIZE", 0),
			DialTimeout: getDurationEnv("REDIS_DIAL_TIMEOUT", 2*time.Second),
			CallTimeout: getDurationEnv("REDIS_CALL_TIMEOUT", 500*time.Millisecond),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "ride-hailing-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Kafka: KafkaConfig{
			Brokers: getListEnv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "ride-events"),
		},
		Pricing: PricingConfig{
			FareModel:      strings.ToLower(getEnv("FARE_MODEL", FareModelMile)),
			NearbyRadiusKm: getFloatEnv("NEARBY_RADIUS_KM", 5.0),
		},
		Rides: RidesConfig{
			StrictTransitions: getBoolEnv("RIDE_STRICT_TRANSITIONS", false),
		},
		Auth: AuthConfig{
			CodeTTL:    getDurationEnv("AUTH_CODE_TTL", 5*time.Minute),
			ExposeCode: getBoolEnv("AUTH_EXPOSE_CODE", true),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendPostgres, StoreBackendMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Pricing.FareModel {
	case FareModelMile, FareModelFlat:
	default:
		return fmt.Errorf("unknown FARE_MODEL %q", c.Pricing.FareModel)
	}

	if c.Pricing.NearbyRadiusKm <= 0 {
		return fmt.Errorf("NEARBY_RADIUS_KM must be positive, got %v", c.Pricing.NearbyRadiusKm)
	}
	if c.Auth.CodeTTL <= 0 {
		return fmt.Errorf("AUTH_CODE_TTL must be positive, got %s", c.Auth.CodeTTL)
	}
	if c.Redis.Enabled {
		if c.Redis.PoolSize < 0 {
			return fmt.Errorf("REDIS_POOL_SIZE must not be negative, got %d", c.Redis.PoolSize)
		}
		if c.Redis.CallTimeout <= 0 {
			return fmt.Errorf("REDIS_CALL_TIMEOUT must be positive, got %s", c.Redis.CallTimeout)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping empty entries.
func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
