package llmclient

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits callers per client identifier, with one token bucket
// per client id created on first use. Buckets are never evicted, so the set
// grows with every distinct client id the process sees.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewLimiter creates a Limiter issuing requestsPerSecond tokens per client,
// with the given burst capacity.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until clientID is allowed to proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, clientID string) error {
	return l.forClient(clientID).Wait(ctx)
}

// Allow reports whether clientID may proceed right now, without blocking.
func (l *Limiter) Allow(clientID string) bool {
	return l.forClient(clientID).Allow()
}

func (l *Limiter) forClient(clientID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[clientID]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[clientID] = lim
	}
	return lim
}
