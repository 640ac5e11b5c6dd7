package services

import (
	"context"
	"testing"
	"time"
)

func TestTripLockMutualExclusion(t *testing.T) {
	locks := newTripLocks()

	release, err := locks.acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("first acquire error: %v", err)
	}

	got := make(chan struct{})
	go func() {
		r2, err := locks.acquire(context.Background(), 1)
		if err != nil {
			t.Errorf("second acquire error: %v", err)
			return
		}
		close(got)
		r2()
	}()

	select {
	case <-got:
		t.Fatalf("second acquire should block while token is held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatalf("second acquire should proceed after release")
	}
}

func TestTripLockDifferentTripsDoNotBlock(t *testing.T) {
	locks := newTripLocks()

	r1, err := locks.acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("acquire trip 1: %v", err)
	}
	defer r1()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r2, err := locks.acquire(ctx, 2)
	if err != nil {
		t.Fatalf("trip 2 should not wait on trip 1: %v", err)
	}
	r2()
}

func TestTripLockAbandonedOnContextCancel(t *testing.T) {
	locks := newTripLocks()

	release, err := locks.acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locks.acquire(ctx, 1); err == nil {
		t.Fatalf("expected context error while token is held")
	}

	// the abandoned waiter must not have corrupted the token
	release()
	r2, err := locks.acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("token unusable after abandoned waiter: %v", err)
	}
	r2()
}

func TestTripLockReleaseIsIdempotent(t *testing.T) {
	locks := newTripLocks()

	release, err := locks.acquire(context.Background(), 1)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}
	release()
	release()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r2, err := locks.acquire(ctx, 1)
	if err != nil {
		t.Fatalf("double release corrupted the token: %v", err)
	}
	r2()
}
