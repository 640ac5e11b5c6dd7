package services

import (
	"context"
	"sync"
)

// tripLocks hands out one exclusion token per trip so claims for different
// trips proceed fully in parallel. Tokens are buffered channels of size one,
// which lets a waiter abandon the attempt when its context is cancelled.
type tripLocks struct {
	mu sync.Mutex
	ch map[int64]chan struct{}
}

func newTripLocks() *tripLocks {
	return &tripLocks{ch: map[int64]chan struct{}{}}
}

func (l *tripLocks) slot(tripID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.ch[tripID]
	if !ok {
		c = make(chan struct{}, 1)
		l.ch[tripID] = c
	}
	return c
}

// acquire blocks until the trip's token is held or ctx is done. The returned
// release is idempotent, so it is safe to defer it and also call it early to
// drop the lock before slow post-commit work.
func (l *tripLocks) acquire(ctx context.Context, tripID int64) (release func(), err error) {
	c := l.slot(tripID)
	select {
	case c <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-c })
	}, nil
}
