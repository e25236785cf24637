package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	responseKeyPrefix = "idempotency:"
	pendingMarker     = "pending"
)

// ResponseStore keeps idempotent responses in Redis. A claimed key holds
// pendingMarker until the response is saved.
type ResponseStore struct {
	client *redis.Client
}

// NewResponseStore creates a new ResponseStore.
func NewResponseStore(client *redis.Client) *ResponseStore {
	return &ResponseStore{client: client}
}

func (s *ResponseStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, responseKeyPrefix+key, pendingMarker, ttl).Result()
}

func (s *ResponseStore) Load(ctx context.Context, key string) (*StoredResponse, error) {
	data, err := s.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if string(data) == pendingMarker {
		return nil, nil
	}

	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, nil
}

func (s *ResponseStore) Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, responseKeyPrefix+key, data, ttl).Err()
}

func (s *ResponseStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, responseKeyPrefix+key).Err()
}

// MemoryResponseStore is the single-instance fallback used when Redis is
// disabled.
type MemoryResponseStore struct {
	mu      sync.Mutex
	entries map[string]memoryResponse
	now     func() time.Time
}

type memoryResponse struct {
	resp      *StoredResponse // nil while pending
	expiresAt time.Time
}

// NewMemoryResponseStore creates an empty MemoryResponseStore.
func NewMemoryResponseStore() *MemoryResponseStore {
	return &MemoryResponseStore{
		entries: make(map[string]memoryResponse),
		now:     time.Now,
	}
}

func (s *MemoryResponseStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = memoryResponse{expiresAt: now.Add(ttl)}
	return true, nil
}

func (s *MemoryResponseStore) Load(_ context.Context, key string) (*StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.resp == nil || !s.now().Before(e.expiresAt) {
		return nil, nil
	}
	copy := *e.resp
	return &copy, nil
}

func (s *MemoryResponseStore) Save(_ context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *resp
	s.entries[key] = memoryResponse{resp: &copy, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryResponseStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
