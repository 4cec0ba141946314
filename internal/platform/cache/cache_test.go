package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Fatal("did not expect value for missing key")
	}

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("get returned %q ok=%v err=%v", value, ok, err)
	}

	if err := m.Expire(ctx, "k"); err != nil {
		t.Fatalf("expire: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected key gone after expire")
	}
}

func TestMemoryIncrWindow(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	count, reset, err := m.Incr(ctx, "rl", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if time.Until(reset) <= 0 {
		t.Fatal("expected reset in the future")
	}

	count, _, _ = m.Incr(ctx, "rl", time.Minute)
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestMemoryIncrExpiredWindowResets(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, _, err := m.Incr(ctx, "rl", -time.Second); err != nil {
		t.Fatalf("incr: %v", err)
	}
	count, _, _ := m.Incr(ctx, "rl", time.Minute)
	if count != 1 {
		t.Fatalf("expected fresh window count 1, got %d", count)
	}
}
