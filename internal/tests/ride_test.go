package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/events"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// 1. RIDE REQUEST
// ──────────────────────────────────────────────

func TestRideRequest_CreatesRideInRequestedState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")

	ride := env.requestRide(t, "rider-1")

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected status %s, got %s", domain.RideStatusRequested, ride.Status)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver, got %s", ride.DriverID)
	}
	if ride.Fare < 7 {
		t.Errorf("expected fare of at least 7, got %f", ride.Fare)
	}
	if ride.Distance <= 0 {
		t.Errorf("expected positive distance, got %f", ride.Distance)
	}
	if ride.Duration == "" {
		t.Error("expected a duration estimate")
	}
	if env.rides.CountRides() != 1 {
		t.Errorf("expected 1 stored ride, got %d", env.rides.CountRides())
	}
	if types := env.publisher.Types(); len(types) != 1 || types[0] != events.TypeRideRequested {
		t.Errorf("expected one ride.requested event, got %v", types)
	}
}

func TestRideRequest_FareFromDistance(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")

	ride := env.requestRide(t, "rider-1")

	expectedDistance := service.Distance(ride.Pickup, ride.Destination)
	if ride.Distance != expectedDistance {
		t.Errorf("expected distance %f, got %f", expectedDistance, ride.Distance)
	}
	if ride.Fare != (service.MileFare{}).Fare(expectedDistance) {
		t.Errorf("fare %f does not match calculator", ride.Fare)
	}
}

func TestRideRequest_ValidatesInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")

	valid := domain.Location{Latitude: 9.03, Longitude: 38.74}

	testCases := []struct {
		name     string
		req      service.RequestRideRequest
		expected error
	}{
		{"missing rider", service.RequestRideRequest{Pickup: valid, Destination: valid}, service.ErrInvalidRiderID},
		{"pickup latitude too high", service.RequestRideRequest{RiderID: "rider-1", Pickup: domain.Location{Latitude: 91}, Destination: valid}, service.ErrInvalidPickupLocation},
		{"pickup longitude too low", service.RequestRideRequest{RiderID: "rider-1", Pickup: domain.Location{Longitude: -181}, Destination: valid}, service.ErrInvalidPickupLocation},
		{"destination latitude too low", service.RequestRideRequest{RiderID: "rider-1", Pickup: valid, Destination: domain.Location{Latitude: -91}}, service.ErrInvalidDestinationLocation},
		{"destination longitude too high", service.RequestRideRequest{RiderID: "rider-1", Pickup: valid, Destination: domain.Location{Longitude: 181}}, service.ErrInvalidDestinationLocation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.rideService.RequestRide(context.Background(), tc.req)
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}

	if env.rides.CreateCallCount != 0 {
		t.Errorf("expected no rides persisted, got %d", env.rides.CreateCallCount)
	}
}

func TestRideRequest_UnknownRider_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	_, err := env.rideService.RequestRide(context.Background(), service.RequestRideRequest{
		RiderID:     "ghost",
		Pickup:      domain.Location{Latitude: 9.03, Longitude: 38.74},
		Destination: domain.Location{Latitude: 9.01, Longitude: 38.76},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRideLists_AvailableOnlyShowsRequested(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	first := env.requestRide(t, "rider-1")
	second := env.requestRide(t, "rider-1")

	if _, err := env.rideService.AcceptRide(ctx, first.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	available, err := env.rideService.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(available) != 1 || available[0].ID != second.ID {
		t.Errorf("expected only ride %s available, got %d rides", second.ID, len(available))
	}

	byRider, _ := env.rideService.ListByRider(ctx, "rider-1")
	if len(byRider) != 2 {
		t.Errorf("expected 2 rides for rider, got %d", len(byRider))
	}

	byDriver, _ := env.rideService.ListByDriver(ctx, "driver-1")
	if len(byDriver) != 1 || byDriver[0].ID != first.ID {
		t.Errorf("expected ride %s for driver, got %d rides", first.ID, len(byDriver))
	}
}

// ──────────────────────────────────────────────
// 2. ACCEPTANCE
// ──────────────────────────────────────────────

func TestAcceptRide_AssignsDriver(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)

	ride := env.requestRide(t, "rider-1")

	accepted, err := env.rideService.AcceptRide(context.Background(), ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("expected accepted, got %s", accepted.Status)
	}
	if accepted.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", accepted.DriverID)
	}
	if accepted.AcceptedAt.IsZero() {
		t.Error("expected acceptance time to be set")
	}
}

func TestAcceptRide_UnknownDriver_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	_, err := env.rideService.AcceptRide(context.Background(), ride.ID, "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if env.rides.AssignDriverCallCount != 0 {
		t.Error("expected no assignment attempt for an unknown driver")
	}
}

func TestAcceptRide_SecondDriver_AlreadyTaken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	env.addDriver("driver-2", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")

	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-2")
	if !errors.Is(err, service.ErrRideAlreadyTaken) {
		t.Errorf("expected ErrRideAlreadyTaken, got %v", err)
	}

	if got := env.rides.GetRide(ride.ID).DriverID; got != "driver-1" {
		t.Errorf("expected driver-1 to keep the ride, got %s", got)
	}
}

func TestAcceptRide_CancelledRide_NotInRequestedState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1")
	if !errors.Is(err, service.ErrRideNotInRequestedState) {
		t.Errorf("expected ErrRideNotInRequestedState, got %v", err)
	}
}

func TestAcceptRide_SameDriverTwice_Succeeds(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Errorf("expected repeat acceptance by the same driver to succeed, got %v", err)
	}

	accepted := 0
	for _, typ := range env.publisher.Types() {
		if typ == events.TypeRideAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("expected one ride.accepted event, got %d", accepted)
	}
}

func TestAcceptRide_ConcurrentDrivers_ExactlyOneWins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")

	const numDrivers = 20
	for i := 0; i < numDrivers; i++ {
		env.addDriver(driverName(i), true, nil)
	}

	ride := env.requestRide(t, "rider-1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	taken := 0
	for i := 0; i < numDrivers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.rideService.AcceptRide(context.Background(), ride.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, service.ErrRideAlreadyTaken):
				taken++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(driverName(i))
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners)
	}
	if taken != numDrivers-1 {
		t.Errorf("expected %d losers, got %d", numDrivers-1, taken)
	}
}

func driverName(i int) string {
	return "driver-" + string(rune('a'+i))
}

// ──────────────────────────────────────────────
// 3. STATUS UPDATES
// ──────────────────────────────────────────────

func TestUpdateStatus_RejectsRequestedAndAccepted(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	for _, status := range []domain.RideStatus{domain.RideStatusRequested, domain.RideStatusAccepted} {
		_, err := env.rideService.UpdateStatus(context.Background(), ride.ID, status)
		if !errors.Is(err, service.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition for %s, got %v", status, err)
		}
	}
}

func TestUpdateStatus_UnknownStatus_Rejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	_, err := env.rideService.UpdateStatus(context.Background(), ride.ID, domain.RideStatus("teleported"))
	if !errors.Is(err, service.ErrInvalidRideStatus) {
		t.Errorf("expected ErrInvalidRideStatus, got %v", err)
	}
}

func TestUpdateStatus_UnknownRide_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	_, err := env.rideService.UpdateStatus(context.Background(), "missing", domain.RideStatusCancelled)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_LenientAllowsSkippingStates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted)
	if err != nil {
		t.Fatalf("expected lenient mode to allow accepted -> completed, got %v", err)
	}
	if updated.Status != domain.RideStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
}

func TestUpdateStatus_StrictEnforcesOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition skipping to completed, got %v", err)
	}

	for _, next := range []domain.RideStatus{
		domain.RideStatusDriverArriving,
		domain.RideStatusInProgress,
		domain.RideStatusCompleted,
	} {
		if _, err := env.rideService.UpdateStatus(ctx, ride.ID, next); err != nil {
			t.Fatalf("unexpected error moving to %s: %v", next, err)
		}
	}

	if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCancelled); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected completed ride to reject cancellation, got %v", err)
	}
}

func TestUpdateStatus_StrictAllowsCancelBeforeCompletion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	updated, err := env.rideService.UpdateStatus(context.Background(), ride.ID, domain.RideStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.RideStatusCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}
}

// ──────────────────────────────────────────────
// 4. SETTLEMENT
// ──────────────────────────────────────────────

func TestCompletion_CreditsDriverAndRecordsTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	completed, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.CompletedAt.IsZero() {
		t.Error("expected completion time to be set")
	}

	driver := env.drivers.GetDriver("driver-1")
	if driver.TotalRides != 1 {
		t.Errorf("expected 1 completed ride, got %d", driver.TotalRides)
	}
	if driver.TotalEarnings != ride.Fare {
		t.Errorf("expected earnings %f, got %f", ride.Fare, driver.TotalEarnings)
	}
	if env.trips.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", env.trips.CountTrips())
	}
}

func TestCompletion_RepeatedCompleteSettlesOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := env.drivers.GetDriver("driver-1").TotalRides; got != 1 {
		t.Errorf("expected 1 completed ride, got %d", got)
	}
	if env.trips.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", env.trips.CountTrips())
	}
}

func TestCompletion_ConcurrentCompletesSettleOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const numCallers = 20
	var wg sync.WaitGroup
	for i := 0; i < numCallers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.rideService.UpdateStatus(context.Background(), ride.ID, domain.RideStatusCompleted); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	driver := env.drivers.GetDriver("driver-1")
	if driver.TotalRides != 1 {
		t.Errorf("expected 1 completed ride, got %d", driver.TotalRides)
	}
	if driver.TotalEarnings != ride.Fare {
		t.Errorf("expected earnings %f, got %f", ride.Fare, driver.TotalEarnings)
	}
	if env.trips.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", env.trips.CountTrips())
	}
}

func TestCompletion_ReopenedRideKeepsFirstCompletion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.AcceptRide(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := env.rideService.UpdateStatus(ctx, ride.ID, domain.RideStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again.Status != domain.RideStatusCompleted {
		t.Errorf("expected completed, got %s", again.Status)
	}
	if !again.CompletedAt.Equal(first.CompletedAt) {
		t.Errorf("expected completion time %v to be kept, got %v", first.CompletedAt, again.CompletedAt)
	}
	if got := env.drivers.GetDriver("driver-1").TotalRides; got != 1 {
		t.Errorf("expected 1 completed ride, got %d", got)
	}
}

func TestCompletion_WithoutDriver_NoSettlement(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")

	ride := env.requestRide(t, "rider-1")
	if _, err := env.rideService.UpdateStatus(context.Background(), ride.ID, domain.RideStatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.trips.CountTrips() != 0 {
		t.Errorf("expected no trips, got %d", env.trips.CountTrips())
	}
}

func TestStatusChange_PublishFailureDoesNotFailUpdate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	env.publisher.PublishError = errors.New("broker down")

	if _, err := env.rideService.UpdateStatus(context.Background(), ride.ID, domain.RideStatusCancelled); err != nil {
		t.Errorf("expected update to succeed despite publish failure, got %v", err)
	}
}
