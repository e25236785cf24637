package redis

import (
	"context"
	"testing"
	"time"
)

func TestMemoryResponseStore_ReserveOnce(t *testing.T) {
	store := NewMemoryResponseStore()
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first reserve = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, _ := store.Reserve(ctx, "k", time.Minute); ok {
		t.Error("expected second reserve to fail while pending")
	}

	resp, err := store.Load(ctx, "k")
	if err != nil || resp != nil {
		t.Errorf("pending key load = (%v, %v), want (nil, nil)", resp, err)
	}
}

func TestMemoryResponseStore_SaveThenLoad(t *testing.T) {
	store := NewMemoryResponseStore()
	ctx := context.Background()

	_, _ = store.Reserve(ctx, "k", time.Minute)
	_ = store.Save(ctx, "k", &StoredResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"id":"r-1"}`)}, time.Hour)

	resp, err := store.Load(ctx, "k")
	if err != nil || resp == nil {
		t.Fatalf("load = (%v, %v)", resp, err)
	}
	if resp.StatusCode != 201 || string(resp.Body) != `{"id":"r-1"}` {
		t.Errorf("unexpected stored response %+v", resp)
	}
	if ok, _ := store.Reserve(ctx, "k", time.Minute); ok {
		t.Error("expected an answered key to stay claimed")
	}
}

func TestMemoryResponseStore_ReleaseAllowsRetry(t *testing.T) {
	store := NewMemoryResponseStore()
	ctx := context.Background()

	_, _ = store.Reserve(ctx, "k", time.Minute)
	_ = store.Release(ctx, "k")

	if ok, _ := store.Reserve(ctx, "k", time.Minute); !ok {
		t.Error("expected reserve to succeed after release")
	}
}

func TestMemoryResponseStore_Expiry(t *testing.T) {
	store := NewMemoryResponseStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = store.Reserve(ctx, "k", time.Minute)
	_ = store.Save(ctx, "k", &StoredResponse{StatusCode: 201}, time.Hour)
	now = now.Add(2 * time.Hour)

	if resp, _ := store.Load(ctx, "k"); resp != nil {
		t.Error("expected expired response to be gone")
	}
	if ok, _ := store.Reserve(ctx, "k", time.Minute); !ok {
		t.Error("expected expired key to be reusable")
	}
}
