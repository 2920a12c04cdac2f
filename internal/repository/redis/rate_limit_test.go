package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitStore_CountWithinWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "rl", TTL: time.Minute})

	ctx := context.Background()
	reference := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{-90 * time.Second, -30 * time.Second, -5 * time.Second} {
		if err := store.RecordAttempt(ctx, "student@example.com", reference.Add(offset)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "student@example.com", time.Minute, reference)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 attempts inside window, got %d", count)
	}
}

func TestRateLimitStore_TrimAndOldest(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "rl", TTL: time.Minute})

	ctx := context.Background()
	reference := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	old := reference.Add(-2 * time.Minute)
	recent := reference.Add(-10 * time.Second)
	for _, at := range []time.Time{old, recent} {
		if err := store.RecordAttempt(ctx, "student@example.com", at); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	if err := store.TrimWindow(ctx, "student@example.com", time.Minute, reference); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	oldest, found, err := store.OldestAttempt(ctx, "student@example.com", time.Minute, reference)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt inside the window")
	}
	if !oldest.Equal(recent) {
		t.Fatalf("expected oldest %v, got %v", recent, oldest)
	}
}

func TestRateLimitStore_OldestAttemptEmpty(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "rl"})

	_, found, err := store.OldestAttempt(context.Background(), "nobody", time.Minute, time.Now())
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Fatal("expected no attempts")
	}
}
