package net

import (
	"testing"
	"time"
)

func TestTokenRecvLimiterBurst(t *testing.T) {
	limiter := NewTokenRecvLimiter(10, 5)

	for i := 0; i < 5; i++ {
		if err := limiter.Take(); err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
	}
}

func TestTokenRecvLimiterReload(t *testing.T) {
	limiter := NewTokenRecvLimiter(10, 2)
	for i := 0; i < 2; i++ {
		if err := limiter.Take(); err != nil {
			t.Fatalf("initial token %d: %v", i, err)
		}
	}

	limiter.Reload(1000, 10)
	for i := 0; i < 10; i++ {
		if err := limiter.Take(); err != nil {
			t.Fatalf("reloaded token %d: %v", i, err)
		}
	}
}

func TestTokenRecvLimiterAsFilter(t *testing.T) {
	limiter := NewTokenRecvLimiter(1000, 2)
	calls := 0
	handler := func(d *Delivery) error {
		calls++
		return nil
	}
	for i := 0; i < 2; i++ {
		if err := limiter.Handle(&Delivery{}, handler); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler called twice, got %d", calls)
	}
}

func TestFunnelRecvLimiterTakeDoesNotStallForever(t *testing.T) {
	limiter := NewFunnelRecvLimiter(1000)
	done := make(chan struct{})
	go func() {
		limiter.Take()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Take blocked unexpectedly")
	}
}

func TestFunnelRecvLimiterReload(t *testing.T) {
	limiter := NewFunnelRecvLimiter(10)
	limiter.Reload(1000)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			limiter.Take()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloaded limiter did not speed up")
	}
}
