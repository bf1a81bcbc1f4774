package worker

import (
	"context"
	"testing"
)

func TestLimiter_Defaults(t *testing.T) {
	limiter := NewLimiter(0, 0)
	if limiter.defaultRate != 1 || limiter.defaultBurst != 3 {
		t.Errorf("unexpected defaults: rate %v burst %d", limiter.defaultRate, limiter.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	// Different domain has its own bucket
	if err := limiter.Wait(ctx, "http://other.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerDomainBuckets(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("http://example.com/a") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://example.com/b") {
		t.Errorf("second request to the same domain should be limited")
	}
	if !limiter.Allow("http://other.com") {
		t.Errorf("other domain should still pass")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 3)
	if limiter.Allow("::invalid") {
		t.Errorf("invalid URLs must not pass the limiter")
	}
	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
