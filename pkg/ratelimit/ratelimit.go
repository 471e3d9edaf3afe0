package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows up to maxHits requests per window for each key.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	if maxHits < 1 {
		maxHits = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		limiters: make(map[string]*entry),
		limit:    rate.Every(window / time.Duration(maxHits)),
		burst:    maxHits,
		idleTTL:  window * 2,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, exists := l.limiters[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than idleTTL; they would be full again anyway.
func (l *Limiter) sweep(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
}
