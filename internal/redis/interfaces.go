package redis

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// CodeStoreInterface holds one-time verification codes keyed by phone.
type CodeStoreInterface interface {
	// Save stores code for phone, replacing any previous one.
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume removes and returns the code for phone. ok is false when no
	// unexpired code exists.
	Consume(ctx context.Context, phone string) (code string, ok bool, err error)
}

// DriverCacheInterface caches driver profiles by ID.
type DriverCacheInterface interface {
	GetDriver(ctx context.Context, driverID string) (*domain.Driver, error)
	SetDriver(ctx context.Context, driver *domain.Driver) error
	InvalidateDriver(ctx context.Context, driverID string) error
}

// StoredResponse is a response kept for replay to a repeated request.
type StoredResponse struct {
	StatusCode  int    `json:"statusCode"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// ResponseStoreInterface remembers responses to requests carrying an
// idempotency key.
type ResponseStoreInterface interface {
	// Reserve claims key for an in-flight request. ok is false when the key
	// is already claimed or answered.
	Reserve(ctx context.Context, key string, ttl time.Duration) (ok bool, err error)
	// Load returns the stored response, or nil while the key is unknown or
	// still in flight.
	Load(ctx context.Context, key string) (*StoredResponse, error)
	// Save stores the final response for key.
	Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
	// Release drops a claim so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Ensure concrete types implement interfaces.
var (
	_ CodeStoreInterface     = (*CodeStore)(nil)
	_ CodeStoreInterface     = (*MemoryCodeStore)(nil)
	_ DriverCacheInterface   = (*CacheStore)(nil)
	_ ResponseStoreInterface = (*ResponseStore)(nil)
	_ ResponseStoreInterface = (*MemoryResponseStore)(nil)
)
