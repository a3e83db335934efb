package cache

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	mr, rdb := newTestClient(t)
	rl := NewRateLimiter(rdb, "rl:login:", 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, _, err := rl.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("hit %d: ok=%v err=%v", i, ok, err)
		}
	}

	ok, retry, err := rl.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatalf("4th hit should be limited")
	}
	if retry <= 0 || retry > time.Minute {
		t.Fatalf("retry = %v", retry)
	}

	// other keys are independent
	if ok, _, _ := rl.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatalf("other key limited")
	}

	// window rolls over
	mr.FastForward(61 * time.Second)
	if ok, _, _ := rl.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatalf("expected allow after window")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	_, rdb := newTestClient(t)
	rl := NewRateLimiter(rdb, "rl:", 1, time.Minute)
	ctx := context.Background()

	_, _, _ = rl.Allow(ctx, "k")
	if ok, _, _ := rl.Allow(ctx, "k"); ok {
		t.Fatalf("expected limited")
	}
	if err := rl.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, _, _ := rl.Allow(ctx, "k"); !ok {
		t.Fatalf("expected allow after reset")
	}
}
