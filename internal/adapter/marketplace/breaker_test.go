package marketplace

import (
	"testing"
	"time"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker(5, 5*time.Minute)

	for i := 0; i < 4; i++ {
		b.Failure()
	}
	if !b.Allow() {
		t.Fatal("breaker should stay closed below threshold")
	}

	b.Failure()
	if b.Allow() {
		t.Fatal("breaker should open at threshold")
	}
	if b.Failures() != 5 {
		t.Fatalf("expected 5 failures, got %d", b.Failures())
	}
}

func TestBreakerClosesAfterCooldown(t *testing.T) {
	current := time.Now()
	b := NewBreaker(2, time.Minute)
	b.now = func() time.Time { return current }

	b.Failure()
	b.Failure()
	if b.Allow() {
		t.Fatal("breaker should be open")
	}

	current = current.Add(30 * time.Second)
	if b.Allow() {
		t.Fatal("breaker should stay open within cooldown")
	}

	current = current.Add(31 * time.Second)
	if !b.Allow() {
		t.Fatal("breaker should close after cooldown")
	}
	if b.Failures() != 0 {
		t.Fatalf("expected failures reset, got %d", b.Failures())
	}
}

func TestBreakerResetOnSuccess(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	b.Failure()
	b.Failure()
	b.Reset()
	if b.Failures() != 0 {
		t.Fatalf("expected 0 failures after reset, got %d", b.Failures())
	}
	if !b.Allow() {
		t.Fatal("breaker should be closed after reset")
	}
}
