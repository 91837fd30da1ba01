// Implements a per-key token bucket rate limiter.

// Package ratelimit throttles HTTP clients with token buckets keyed by client
// IP and request class.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// staleAfter is how long an idle, full bucket is kept before being dropped.
const staleAfter = 10 * time.Minute

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int           // requests per window
	Remaining  int           // requests left before throttling
	ResetAt    time.Time     // when the bucket is full again
	RetryAfter time.Duration // wait before retrying, 0 if allowed
}

// Limiter hands out one token bucket per key.
type Limiter struct {
	limit  rate.Limit
	burst  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a limiter refilling requests tokens per window with at
// most burst tokens banked. It starts a goroutine dropping idle buckets;
// call Close to stop it.
func NewLimiter(requests int, window time.Duration, burst int) *Limiter {
	l := &Limiter{
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(staleAfter)
	return l
}

// Allow takes one token from the bucket of key, if one is available.
func (l *Limiter) Allow(key string) Result {
	now := l.now()
	l.mu.Lock()
	b := l.buckets[key]
	if b == nil {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	res := Result{Limit: int(math.Round(float64(l.limit) * l.window.Seconds()))}
	r := b.limiter.ReserveN(now, 1)
	res.Allowed = r.OK() && r.DelayFrom(now) == 0
	if !res.Allowed {
		if r.OK() {
			r.CancelAt(now)
		}
		res.RetryAfter = max(time.Duration(float64(time.Second)/float64(l.limit)), time.Second)
	}
	tokens := b.limiter.TokensAt(now)
	res.Remaining = max(int(tokens), 0)
	missing := float64(l.burst) - tokens
	res.ResetAt = now.Add(time.Duration(missing / float64(l.limit) * float64(time.Second)))
	return res
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.cleanup()
		case <-l.done:
			return
		}
	}
}

// cleanup drops buckets that are idle and full, since a new bucket would be
// identical.
func (l *Limiter) cleanup() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleAfter && b.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.done) })
}
