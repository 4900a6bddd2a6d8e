// Package ratelimit implements the fixed-window throttle applied to
// bulk-invite calls. Counts reset at window boundaries rather than decay.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

type window struct {
	count   int
	startAt time.Time
}

// Limiter tracks one fixed window per requester. A denied call does not
// increment the count and never extends the window.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	state map[string]*window
}

func New(limit int, windowSize time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if windowSize <= 0 {
		windowSize = DefaultWindow
	}
	return &Limiter{
		limit:  limit,
		window: windowSize,
		now:    time.Now,
		state:  make(map[string]*window),
	}
}

// WithClock overrides the time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow consumes one slot for the requester if the window permits it.
func (l *Limiter) Allow(requesterID string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.state[requesterID]
	if !ok || now.Sub(current.startAt) > l.window {
		l.state[requesterID] = &window{count: 1, startAt: now}
		return true
	}

	if current.count >= l.limit {
		return false
	}

	current.count++
	return true
}
