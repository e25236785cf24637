package service

import (
	"context"

	"ridehail/internal/domain"
	"ridehail/internal/observability"
	"ridehail/internal/repository"
)

const defaultSearchRadiusKm = 5.0

// MatchingService finds online drivers near a point.
type MatchingService struct {
	driverRepo    repository.DriverRepository
	defaultRadius float64
}

// NewMatchingService creates a new MatchingService. A non-positive
// defaultRadiusKm falls back to 5 km.
func NewMatchingService(driverRepo repository.DriverRepository, defaultRadiusKm float64) *MatchingService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = defaultSearchRadiusKm
	}
	return &MatchingService{
		driverRepo:    driverRepo,
		defaultRadius: defaultRadiusKm,
	}
}

// NearbyRequest contains the parameters for a nearby-driver search.
type NearbyRequest struct {
	Point    domain.Location
	RadiusKm float64 // Optional: 0 uses the default
}

// FindNearby scans every online driver and keeps those with a known
// location within the radius. The result is unordered.
func (s *MatchingService) FindNearby(ctx context.Context, req NearbyRequest) ([]*domain.Driver, error) {
	if !req.Point.Valid() {
		return nil, ErrInvalidLocation
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}

	online, err := s.driverRepo.ListOnline(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]*domain.Driver, 0, len(online))
	for _, driver := range online {
		if !driver.IsOnline || driver.Location == nil {
			continue
		}
		if Distance(req.Point, *driver.Location) <= radiusKm {
			nearby = append(nearby, driver)
		}
	}

	observability.NearbyDrivers.Observe(float64(len(nearby)))
	return nearby, nil
}
