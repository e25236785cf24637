package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "auth:code:"

// CodeStore keeps verification codes in Redis so every instance sees them.
type CodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a new CodeStore.
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// Save stores code with an expiry.
func (s *CodeStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKeyPrefix+phone, code, ttl).Err()
}

// Consume atomically reads and deletes the code.
func (s *CodeStore) Consume(ctx context.Context, phone string) (string, bool, error) {
	code, err := s.client.GetDel(ctx, codeKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

// MemoryCodeStore is the single-instance fallback used when Redis is disabled.
// Codes do not survive a restart.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

type memoryCode struct {
	code      string
	expiresAt time.Time
}

// NewMemoryCodeStore creates an empty MemoryCodeStore.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		codes: make(map[string]memoryCode),
		now:   time.Now,
	}
}

// Save stores code with an expiry and drops any expired entries.
func (s *MemoryCodeStore) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for p, c := range s.codes {
		if !now.Before(c.expiresAt) {
			delete(s.codes, p)
		}
	}
	s.codes[phone] = memoryCode{code: code, expiresAt: now.Add(ttl)}
	return nil
}

// Consume removes and returns the code if it has not expired.
func (s *MemoryCodeStore) Consume(_ context.Context, phone string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[phone]
	if !ok {
		return "", false, nil
	}
	delete(s.codes, phone)
	if !s.now().Before(c.expiresAt) {
		return "", false, nil
	}
	return c.code, true, nil
}
