package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/events"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is an in-memory UserRepository with unique phones.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone {
			return repository.ErrDuplicate
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// remove deletes a user; used to undo a partially created account.
func (m *MockUserRepository) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// CountUsers returns the number of users.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is an in-memory DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	history []*domain.LocationSample

	// Counters for verification
	CreateCallCount         int32
	UpdateLocationCallCount int32
	GetByIDCallCount        int32

	// Error injection
	CreateError         error
	UpdateLocationError error
	ListOnlineError     error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; ok {
		return repository.ErrDuplicate
	}
	copy := *driver
	m.drivers[driver.ID] = &copy
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) ListOnline(ctx context.Context) ([]*domain.Driver, error) {
	if m.ListOnlineError != nil {
		return nil, m.ListOnlineError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if d.IsOnline {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) SetOnline(ctx context.Context, id string, online bool) error {
	return m.mutate(id, func(d *domain.Driver) {
		d.IsOnline = online
	})
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, id string, loc domain.Location, at time.Time) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	return m.mutate(id, func(d *domain.Driver) {
		d.Location = &loc
		d.LocationUpdatedAt = at
	})
}

func (m *MockDriverRepository) AppendLocationHistory(ctx context.Context, sample *domain.LocationSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, sample)
	return nil
}

func (m *MockDriverRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	return m.mutate(id, func(d *domain.Driver) {
		d.Rating = rating
	})
}

func (m *MockDriverRepository) AddCompletedRide(ctx context.Context, id string, fare float64) error {
	return m.mutate(id, func(d *domain.Driver) {
		d.TotalRides++
		d.TotalEarnings += fare
	})
}

func (m *MockDriverRepository) mutate(id string, fn func(d *domain.Driver)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(driver)
	driver.UpdatedAt = time.Now().UTC()
	return nil
}

// GetDriver returns the stored driver by ID (for test assertions).
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// LocationHistory returns the recorded samples for a driver.
func (m *MockDriverRepository) LocationHistory(driverID string) []*domain.LocationSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LocationSample
	for _, s := range m.history {
		if s.DriverID == driverID {
			result = append(result, s)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory RideRepository. AssignDriver is
// conditional under the lock, like the conditional update of the real stores.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount        int32
	AssignDriverCallCount  int32
	UpdateStatusCallCount  int32
	MarkCompletedCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool { return r.Status == status }), nil
}

func (m *MockRideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool { return r.RiderID == riderID }), nil
}

func (m *MockRideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	return m.list(func(r *domain.Ride) bool { return r.DriverID == driverID }), nil
}

func (m *MockRideRepository) list(match func(r *domain.Ride) bool) []*domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if match(r) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *MockRideRepository) AssignDriver(ctx context.Context, rideID, driverID string, at time.Time) (bool, error) {
	atomic.AddInt32(&m.AssignDriverCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.Status != domain.RideStatusRequested || ride.DriverID != "" {
		return false, nil
	}
	ride.DriverID = driverID
	ride.Status = domain.RideStatusAccepted
	ride.AcceptedAt = at
	return true, nil
}

func (m *MockRideRepository) UpdateStatus(ctx context.Context, rideID string, status domain.RideStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	ride.Status = status
	return nil
}

func (m *MockRideRepository) MarkCompleted(ctx context.Context, rideID string, at time.Time) (bool, error) {
	atomic.AddInt32(&m.MarkCompletedCallCount, 1)
	if m.UpdateStatusError != nil {
		return false, m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || !ride.CompletedAt.IsZero() {
		return false, nil
	}
	ride.Status = domain.RideStatusCompleted
	ride.CompletedAt = at
	return true, nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is an in-memory RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings []*domain.Rating

	// Error injection
	CreateError error
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *rating
	m.ratings = append(m.ratings, &copy)
	return nil
}

func (m *MockRatingRepository) ListByRated(ctx context.Context, ratedID string) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rating, 0)
	for i := len(m.ratings) - 1; i >= 0; i-- {
		if m.ratings[i].RatedID == ratedID {
			copy := *m.ratings[i]
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountRatings returns the number of stored ratings.
func (m *MockRatingRepository) CountRatings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ratings)
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is an in-memory TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips []*domain.Trip

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = append(m.trips, trip)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddTrip(trip)
	return nil
}

func (m *MockTripRepository) ListByDriverBetween(ctx context.Context, driverID string, start, end time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.DriverID != driverID || t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CountTrips returns the number of trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockAccountRepository creates accounts over the user and driver mocks,
// removing the user again when the driver insert fails.
type MockAccountRepository struct {
	users   *MockUserRepository
	drivers *MockDriverRepository
}

// NewMockAccountRepository creates a mock account repository.
func NewMockAccountRepository(users *MockUserRepository, drivers *MockDriverRepository) *MockAccountRepository {
	return &MockAccountRepository{users: users, drivers: drivers}
}

func (m *MockAccountRepository) CreateDriverAccount(ctx context.Context, user *domain.User, driver *domain.Driver) error {
	if err := m.users.Create(ctx, user); err != nil {
		return err
	}
	if err := m.drivers.Create(ctx, driver); err != nil {
		m.users.remove(user.ID)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER CACHE
// ──────────────────────────────────────────────

// MockDriverCache is an in-memory DriverCacheInterface.
type MockDriverCache struct {
	mu      sync.Mutex
	drivers map[string]*domain.Driver

	HitCount        int32
	InvalidateCount int32
}

// NewMockDriverCache creates a new mock driver cache.
func NewMockDriverCache() *MockDriverCache {
	return &MockDriverCache{
		drivers: make(map[string]*domain.Driver),
	}
}

func (m *MockDriverCache) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	copy := *driver
	return &copy, nil
}

func (m *MockDriverCache) SetDriver(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *driver
	m.drivers[driver.ID] = &copy
	return nil
}

func (m *MockDriverCache) InvalidateDriver(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, driverID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher records every published event.
type MockPublisher struct {
	mu     sync.Mutex
	events []events.Event

	// Error injection
	PublishError error
}

// NewMockPublisher creates a new recording publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Types returns the types of published events in order.
func (m *MockPublisher) Types() []events.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]events.Type, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

// Compile-time interface checks.
var (
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.DriverRepository  = (*MockDriverRepository)(nil)
	_ repository.RideRepository    = (*MockRideRepository)(nil)
	_ repository.RatingRepository  = (*MockRatingRepository)(nil)
	_ repository.TripRepository    = (*MockTripRepository)(nil)
	_ repository.AccountRepository = (*MockAccountRepository)(nil)
	_ redis.DriverCacheInterface   = (*MockDriverCache)(nil)
	_ events.Publisher             = (*MockPublisher)(nil)
)
