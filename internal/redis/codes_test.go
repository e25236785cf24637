package redis

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCodeStore_ConsumeOnce(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	if err := store.Save(ctx, "+251911000000", "123456", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}

	code, ok, err := store.Consume(ctx, "+251911000000")
	if err != nil || !ok || code != "123456" {
		t.Fatalf("first consume = (%q, %v, %v), want (123456, true, nil)", code, ok, err)
	}

	_, ok, err = store.Consume(ctx, "+251911000000")
	if err != nil || ok {
		t.Fatalf("second consume = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestMemoryCodeStore_Expiry(t *testing.T) {
	store := NewMemoryCodeStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, "phone", "111111", time.Minute)
	now = now.Add(2 * time.Minute)

	if _, ok, _ := store.Consume(ctx, "phone"); ok {
		t.Error("expected expired code to be rejected")
	}
}

func TestMemoryCodeStore_SaveReplaces(t *testing.T) {
	store := NewMemoryCodeStore()
	ctx := context.Background()

	_ = store.Save(ctx, "phone", "111111", time.Minute)
	_ = store.Save(ctx, "phone", "222222", time.Minute)

	code, ok, _ := store.Consume(ctx, "phone")
	if !ok || code != "222222" {
		t.Errorf("expected latest code, got %q ok=%v", code, ok)
	}
}
