package utils

import (
	"context"
	"sync"
	"time"
)

// SessionLimiter bounds how many browser sessions run at once and spaces
// out their launches. Sessions are never shared; callers only queue.
type SessionLimiter struct {
	maxSessions int
	intervalMs  int
	semaphore   chan struct{}
	mu          sync.Mutex
	lastLaunch  time.Time
}

// NewSessionLimiter creates a SessionLimiter with the given concurrency and launch interval.
func NewSessionLimiter(maxSessions, intervalMs int) *SessionLimiter {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &SessionLimiter{
		maxSessions: maxSessions,
		intervalMs:  intervalMs,
		semaphore:   make(chan struct{}, maxSessions),
	}
}

// Acquire blocks until a slot is free and the launch interval has elapsed.
// The returned release func must be called exactly once.
func (sl *SessionLimiter) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case sl.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := sl.enforceInterval(ctx); err != nil {
		<-sl.semaphore
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-sl.semaphore })
	}, nil
}

// InUse returns the number of sessions currently holding a slot.
func (sl *SessionLimiter) InUse() int {
	return len(sl.semaphore)
}

// Capacity returns the maximum number of concurrent sessions.
func (sl *SessionLimiter) Capacity() int {
	return sl.maxSessions
}

func (sl *SessionLimiter) enforceInterval(ctx context.Context) error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	minInterval := time.Duration(sl.intervalMs) * time.Millisecond
	if wait := minInterval - time.Since(sl.lastLaunch); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	sl.lastLaunch = time.Now()
	return nil
}
