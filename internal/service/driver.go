package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

// DriverService handles driver profile operations. Every mutation
// invalidates the cached profile.
type DriverService struct {
	driverRepo repository.DriverRepository
	accounts   repository.AccountRepository
	cache      redis.DriverCacheInterface // nil when Redis is disabled
	logger     *slog.Logger
	now        func() time.Time
}

// NewDriverService creates a new DriverService. cache may be nil.
func NewDriverService(
	driverRepo repository.DriverRepository,
	accounts repository.AccountRepository,
	cache redis.DriverCacheInterface,
	logger *slog.Logger,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		accounts:   accounts,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterDriverRequest contains the parameters for a standalone driver registration.
type RegisterDriverRequest struct {
	Name    string
	Phone   string
	Vehicle *domain.Vehicle
}

// Register creates a driver-role user and its driver profile under one ID.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return nil, ErrInvalidDriverName
	}
	if req.Phone == "" {
		return nil, ErrInvalidPhone
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Phone:     req.Phone,
		Role:      domain.RoleDriver,
		Language:  domain.LanguageEnglish,
		Profile:   &domain.Profile{Name: req.Name},
		CreatedAt: s.now().UTC(),
	}
	return s.CreateAccount(ctx, user, req.Vehicle)
}

// CreateAccount stores a driver-role user together with its driver record,
// which shares the user's ID. The driver starts offline with the default
// rating. If either write fails, neither record is kept.
func (s *DriverService) CreateAccount(ctx context.Context, user *domain.User, vehicle *domain.Vehicle) (*domain.Driver, error) {
	now := s.now().UTC()
	driver := &domain.Driver{
		ID:        user.ID,
		Phone:     user.Phone,
		Vehicle:   vehicle,
		Rating:    domain.DefaultDriverRating,
		IsOnline:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Profile != nil {
		driver.Name = user.Profile.Name
	}

	if err := s.accounts.CreateDriverAccount(ctx, user, driver); err != nil {
		s.logger.ErrorContext(ctx, "create driver account failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("create driver account: %w", err)
	}

	s.logger.InfoContext(ctx, "driver registered", "driver_id", driver.ID)
	return driver, nil
}

// Get returns a driver, reading through the cache when one is configured.
func (s *DriverService) Get(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if s.cache != nil {
		cached, err := s.cache.GetDriver(ctx, driverID)
		if err != nil {
			s.logger.WarnContext(ctx, "driver cache read failed", "driver_id", driverID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDriver(ctx, driver); err != nil {
			s.logger.WarnContext(ctx, "driver cache write failed", "driver_id", driverID, "error", err)
		}
	}
	return driver, nil
}

// UpdateLocationRequest contains the parameters for updating driver location.
type UpdateLocationRequest struct {
	DriverID string
	Location domain.Location
	Speed    *float64
	Heading  *float64
}

// UpdateLocation stores the driver's latest position and appends it to the
// location history. It does not change the online flag.
func (s *DriverService) UpdateLocation(ctx context.Context, req UpdateLocationRequest) (*domain.Driver, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if !req.Location.Valid() {
		return nil, ErrInvalidLocation
	}

	now := s.now().UTC()
	if err := s.driverRepo.UpdateLocation(ctx, req.DriverID, req.Location, now); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.DriverID)

	sample := &domain.LocationSample{
		ID:         uuid.New().String(),
		DriverID:   req.DriverID,
		Latitude:   req.Location.Latitude,
		Longitude:  req.Location.Longitude,
		Speed:      req.Speed,
		Heading:    req.Heading,
		RecordedAt: now,
	}
	if err := s.driverRepo.AppendLocationHistory(ctx, sample); err != nil {
		return nil, fmt.Errorf("append location history: %w", err)
	}

	return s.driverRepo.GetByID(ctx, req.DriverID)
}

// SetOnline toggles whether the driver is available for matching.
func (s *DriverService) SetOnline(ctx context.Context, driverID string, online bool) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if err := s.driverRepo.SetOnline(ctx, driverID, online); err != nil {
		return nil, err
	}
	s.invalidate(ctx, driverID)

	s.logger.InfoContext(ctx, "driver status changed", "driver_id", driverID, "online", online)
	return s.driverRepo.GetByID(ctx, driverID)
}

// AddCompletedRide credits one completed ride and its fare to the driver.
func (s *DriverService) AddCompletedRide(ctx context.Context, driverID string, fare float64) error {
	if err := s.driverRepo.AddCompletedRide(ctx, driverID, fare); err != nil {
		return err
	}
	s.invalidate(ctx, driverID)
	return nil
}

// UpdateRating overwrites the driver's average rating. It reports false
// when ratedID has no driver record.
func (s *DriverService) UpdateRating(ctx context.Context, ratedID string, average float64) (bool, error) {
	err := s.driverRepo.UpdateRating(ctx, ratedID, average)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, ratedID)
	return true, nil
}

func (s *DriverService) invalidate(ctx context.Context, driverID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDriver(ctx, driverID); err != nil {
		s.logger.WarnContext(ctx, "driver cache invalidation failed", "driver_id", driverID, "error", err)
	}
}
