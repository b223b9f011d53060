package scan

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so concurrent requests to different
// domains proceed independently while requests within one domain queue.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter with the given default
// requests-per-second limit. Each domain gets a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the domain's limiter allows a request. A positive
// rps overrides the default for the domain on first use. Returns an
// error only if the context is canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string, rps float64) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limit := d.rps
		if rps > 0 {
			limit = rps
		}
		limiter = rate.NewLimiter(rate.Limit(limit), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
