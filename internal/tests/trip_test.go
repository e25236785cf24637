package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

func TestTrip_RecordTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addDriver("driver-1", true, nil)
	start := time.Now().Add(-time.Hour)

	trip, err := env.tripService.RecordTrip(context.Background(), service.RecordTripRequest{
		DriverID:  "driver-1",
		Fare:      12,
		StartTime: start,
		EndTime:   start.Add(20 * time.Minute),
		Distance:  6.4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.RideID != "" {
		t.Errorf("expected no ride for a logged trip, got %s", trip.RideID)
	}
	if env.trips.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", env.trips.CountTrips())
	}
}

func TestTrip_RecordTrip_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addDriver("driver-1", true, nil)
	now := time.Now()

	testCases := []struct {
		name     string
		req      service.RecordTripRequest
		expected error
	}{
		{"negative fare", service.RecordTripRequest{DriverID: "driver-1", Fare: -1}, service.ErrInvalidFare},
		{"end before start", service.RecordTripRequest{DriverID: "driver-1", Fare: 5, StartTime: now, EndTime: now.Add(-time.Minute)}, service.ErrInvalidTimeRange},
		{"unknown driver", service.RecordTripRequest{DriverID: "ghost", Fare: 5}, repository.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.tripService.RecordTrip(context.Background(), tc.req); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestTrip_EarningsOverWindow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addDriver("driver-1", true, nil)
	env.addDriver("driver-2", true, nil)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, fare := range []float64{8.5, 12, 25, 31} {
		env.trips.AddTrip(&domain.Trip{
			ID:        "trip-" + string(rune('a'+i)),
			DriverID:  "driver-1",
			Fare:      fare,
			CreatedAt: day.Add(time.Duration(i+1) * time.Hour),
		})
	}
	// Outside the window and for another driver.
	env.trips.AddTrip(&domain.Trip{ID: "old", DriverID: "driver-1", Fare: 100, CreatedAt: day.Add(-time.Hour)})
	env.trips.AddTrip(&domain.Trip{ID: "other", DriverID: "driver-2", Fare: 100, CreatedAt: day.Add(time.Hour)})

	summary, err := env.tripService.Earnings(context.Background(), "driver-1", service.Window{
		Start: day,
		End:   day.Add(24*time.Hour - time.Nanosecond),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TripCount != 4 {
		t.Errorf("expected 4 trips, got %d", summary.TripCount)
	}
	if summary.TotalFares != 76.5 || summary.TotalFees != 8.0 || summary.NetAmount != 68.5 {
		t.Errorf("unexpected totals %+v", summary)
	}
	if summary.Trips[0].TripID != "trip-a" {
		t.Errorf("expected oldest trip first, got %s", summary.Trips[0].TripID)
	}
}

func TestTrip_EarningsOpenWindow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addDriver("driver-1", true, nil)
	env.trips.AddTrip(&domain.Trip{ID: "t1", DriverID: "driver-1", Fare: 40, CreatedAt: time.Unix(3600, 0).UTC()})

	summary, err := env.tripService.Earnings(context.Background(), "driver-1", service.Window{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TripCount != 1 || summary.NetAmount != 37 {
		t.Errorf("expected one trip netting 37, got %+v", summary)
	}
}

func TestTrip_EarningsInvertedWindow_Rejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addDriver("driver-1", true, nil)
	now := time.Now()

	_, err := env.tripService.Earnings(context.Background(), "driver-1", service.Window{Start: now, End: now.Add(-time.Hour)})
	if !errors.Is(err, service.ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestTrip_CompletedRideAppearsInEarnings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trips, err := env.tripService.ListTrips(ctx, "driver-1", service.Window{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 || trips[0].RideID != ride.ID || trips[0].Fare != ride.Fare {
		t.Errorf("expected trip for ride %s, got %+v", ride.ID, trips)
	}
}
