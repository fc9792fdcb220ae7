package utils

import (
	"sync"
	"time"
)

// SlidingWindowRateLimiter admits at most capacity calls in any trailing
// window of the configured duration. Allow never blocks and never
// over-admits; under contention a conservative denial is acceptable.
type SlidingWindowRateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	admitted []time.Time
}

func NewSlidingWindowRateLimiter(capacity int, window time.Duration) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		capacity: capacity,
		window:   window,
		admitted: make([]time.Time, 0, capacity),
	}
}

// Allow reports whether the call is admitted and, if so, counts it
// against the current window.
func (l *SlidingWindowRateLimiter) Allow() bool {
	now := time.Now()
	edge := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop admissions that left the trailing window.
	keep := 0
	for ; keep < len(l.admitted); keep++ {
		if l.admitted[keep].After(edge) {
			break
		}
	}
	if keep > 0 {
		l.admitted = append(l.admitted[:0], l.admitted[keep:]...)
	}

	if len(l.admitted) >= l.capacity {
		return false
	}

	l.admitted = append(l.admitted, now)
	return true
}
