package tests

import (
	"context"
	"errors"
	"testing"

	"ridehail/internal/repository"
	"ridehail/internal/service"
)

func TestRating_UpdatesDriverAverage(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()
	ride := env.requestRide(t, "rider-1")

	for _, score := range []int{5, 5, 4} {
		if _, err := env.ratingService.Submit(ctx, service.SubmitRatingRequest{
			RideID:  ride.ID,
			RaterID: "rider-1",
			RatedID: "driver-1",
			Rating:  score,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := env.drivers.GetDriver("driver-1").Rating; got != 4.7 {
		t.Errorf("expected average 4.7, got %f", got)
	}
	if env.ratings.CountRatings() != 3 {
		t.Errorf("expected duplicate ratings to be kept, got %d", env.ratings.CountRatings())
	}
}

func TestRating_RiderRated_NoDriverWrite(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ride := env.requestRide(t, "rider-1")

	rating, err := env.ratingService.Submit(context.Background(), service.SubmitRatingRequest{
		RideID:  ride.ID,
		RaterID: "driver-1",
		RatedID: "rider-1",
		Rating:  3,
		Comment: "late",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.Comment != "late" {
		t.Errorf("expected comment to be stored, got %q", rating.Comment)
	}
	if got := env.drivers.GetDriver("driver-1").Rating; got != 5.0 {
		t.Errorf("expected driver rating untouched, got %f", got)
	}
}

func TestRating_OutOfRange_Rejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	ride := env.requestRide(t, "rider-1")

	for _, score := range []int{0, 6, -1} {
		_, err := env.ratingService.Submit(context.Background(), service.SubmitRatingRequest{
			RideID:  ride.ID,
			RaterID: "rider-1",
			RatedID: "driver-1",
			Rating:  score,
		})
		if !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating for %d, got %v", score, err)
		}
	}
	if env.ratings.CountRatings() != 0 {
		t.Errorf("expected nothing stored, got %d", env.ratings.CountRatings())
	}
}

func TestRating_UnknownRide_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	_, err := env.ratingService.Submit(context.Background(), service.SubmitRatingRequest{
		RideID:  "missing",
		RaterID: "rider-1",
		RatedID: "driver-1",
		Rating:  5,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRating_ListReceived_NewestFirst(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	env.addRider("rider-1")
	env.addDriver("driver-1", true, nil)
	ctx := context.Background()
	ride := env.requestRide(t, "rider-1")

	for _, score := range []int{2, 4} {
		if _, err := env.ratingService.Submit(ctx, service.SubmitRatingRequest{
			RideID: ride.ID, RaterID: "rider-1", RatedID: "driver-1", Rating: score,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	received, err := env.ratingService.ListReceived(ctx, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 2 || received[0].Rating != 4 {
		t.Errorf("expected newest rating first, got %d entries", len(received))
	}
}
