package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ridehail/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DriverCacheTTL is short because online status and location change often.
const DriverCacheTTL = 30 * time.Second

const driverCachePrefix = "cache:driver:"

// cachedLocation is the cached form of domain.Location.
type cachedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// cachedDriver is the cached form of domain.Driver.
type cachedDriver struct {
	ID                string          `json:"id"`
	Name              string          `json:"name,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Vehicle           *domain.Vehicle `json:"vehicle,omitempty"`
	Location          *cachedLocation `json:"location,omitempty"`
	LocationUpdatedAt time.Time       `json:"locationUpdatedAt"`
	Rating            float64         `json:"rating"`
	IsOnline          bool            `json:"isOnline"`
	TotalRides        int             `json:"totalRides"`
	TotalEarnings     float64         `json:"totalEarnings"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// GetDriver retrieves a driver from cache. A miss returns (nil, nil).
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	data, err := s.client.Get(ctx, driverCachePrefix+driverID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var c cachedDriver
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	driver := &domain.Driver{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		Vehicle:           c.Vehicle,
		LocationUpdatedAt: c.LocationUpdatedAt,
		Rating:            c.Rating,
		IsOnline:          c.IsOnline,
		TotalRides:        c.TotalRides,
		TotalEarnings:     c.TotalEarnings,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.Location != nil {
		driver.Location = &domain.Location{
			Latitude:  c.Location.Latitude,
			Longitude: c.Location.Longitude,
			Address:   c.Location.Address,
		}
	}
	return driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *domain.Driver) error {
	c := cachedDriver{
		ID:                driver.ID,
		Name:              driver.Name,
		Phone:             driver.Phone,
		Vehicle:           driver.Vehicle,
		LocationUpdatedAt: driver.LocationUpdatedAt,
		Rating:            driver.Rating,
		IsOnline:          driver.IsOnline,
		TotalRides:        driver.TotalRides,
		TotalEarnings:     driver.TotalEarnings,
		CreatedAt:         driver.CreatedAt,
		UpdatedAt:         driver.UpdatedAt,
	}
	if driver.Location != nil {
		c.Location = &cachedLocation{
			Latitude:  driver.Location.Latitude,
			Longitude: driver.Location.Longitude,
			Address:   driver.Location.Address,
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, driverCachePrefix+driver.ID, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, driverCachePrefix+driverID).Err()
}
