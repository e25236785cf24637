package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// TripService records driver trips and reports earnings over them.
type TripService struct {
	tripRepo      repository.TripRepository
	driverService *DriverService
	logger        *slog.Logger
	now           func() time.Time
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository, driverService *DriverService, logger *slog.Logger) *TripService {
	return &TripService{
		tripRepo:      tripRepo,
		driverService: driverService,
		logger:        logger,
		now:           time.Now,
	}
}

// RecordTripRequest contains the parameters for logging a trip directly.
type RecordTripRequest struct {
	DriverID  string
	Fare      float64
	StartTime time.Time
	EndTime   time.Time
	Distance  float64
}

// RecordTrip stores a trip for an existing driver.
func (s *TripService) RecordTrip(ctx context.Context, req RecordTripRequest) (*domain.Trip, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.Fare < 0 {
		return nil, ErrInvalidFare
	}
	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && req.StartTime.After(req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if _, err := s.driverService.Get(ctx, req.DriverID); err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		ID:        uuid.New().String(),
		DriverID:  req.DriverID,
		Fare:      req.Fare,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Distance:  req.Distance,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trip recorded", "trip_id", trip.ID, "driver_id", trip.DriverID, "fare", trip.Fare)
	return trip, nil
}

// Window is an inclusive time range. A zero Start means the epoch and a
// zero End means now.
type Window struct {
	Start time.Time
	End   time.Time
}

func (s *TripService) resolve(w Window) (Window, error) {
	if w.Start.IsZero() {
		w.Start = time.Unix(0, 0).UTC()
	}
	if w.End.IsZero() {
		w.End = s.now().UTC()
	}
	if w.Start.After(w.End) {
		return Window{}, ErrInvalidTimeRange
	}
	return w, nil
}

// ListTrips returns a driver's trips created within the window, oldest first.
func (s *TripService) ListTrips(ctx context.Context, driverID string, window Window) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	w, err := s.resolve(window)
	if err != nil {
		return nil, err
	}
	if _, err := s.driverService.Get(ctx, driverID); err != nil {
		return nil, err
	}
	return s.tripRepo.ListByDriverBetween(ctx, driverID, w.Start, w.End)
}

// TripEarning is the fee breakdown of one trip. Values are not rounded.
type TripEarning struct {
	TripID string
	Fare   float64
	Fee    float64
	Net    float64
}

// EarningsSummary aggregates a driver's trips over a window.
type EarningsSummary struct {
	DriverID   string
	Start      time.Time
	End        time.Time
	TripCount  int
	TotalFares float64
	TotalFees  float64
	NetAmount  float64
	Trips      []TripEarning
}

// Earnings reports fees and net earnings for a driver's trips in the window.
func (s *TripService) Earnings(ctx context.Context, driverID string, window Window) (*EarningsSummary, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	w, err := s.resolve(window)
	if err != nil {
		return nil, err
	}
	if _, err := s.driverService.Get(ctx, driverID); err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.ListByDriverBetween(ctx, driverID, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	summary := SummarizeEarnings(trips)
	summary.DriverID = driverID
	summary.Start = w.Start
	summary.End = w.End
	return &summary, nil
}

// SummarizeEarnings applies the service fee per trip. Totals are rounded to
// two decimals; the per-trip detail is left unrounded.
func SummarizeEarnings(trips []*domain.Trip) EarningsSummary {
	summary := EarningsSummary{Trips: make([]TripEarning, 0, len(trips))}

	var fares, fees float64
	for _, t := range trips {
		fee := ServiceFee(t.Fare)
		fares += t.Fare
		fees += fee
		summary.Trips = append(summary.Trips, TripEarning{
			TripID: t.ID,
			Fare:   t.Fare,
			Fee:    fee,
			Net:    t.Fare - fee,
		})
	}

	summary.TripCount = len(trips)
	summary.TotalFares = round2(fares)
	summary.TotalFees = round2(fees)
	summary.NetAmount = round2(fares - fees)
	return summary
}
