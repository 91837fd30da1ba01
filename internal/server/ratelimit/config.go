// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"time"
)

// HealthPath is never rate limited.
const HealthPath = "/health"

// Tier is a named limiter applied to one class of requests.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Tiers holds the limiters of each request class. A nil tier is unlimited.
type Tiers struct {
	Read  *Tier
	Write *Tier
}

// NewTiers creates tiers from per-minute limits. A limit of 0 disables the
// tier. Each tier allows a burst of a sixth of its per-minute rate.
func NewTiers(readPerMin, writePerMin int) *Tiers {
	return &Tiers{
		Read:  newTier("read", readPerMin),
		Write: newTier("write", writePerMin),
	}
}

func newTier(name string, perMin int) *Tier {
	if perMin <= 0 {
		return nil
	}
	return &Tier{Name: name, Limiter: NewLimiter(perMin, time.Minute, max(perMin/6, 1))}
}

// Match returns the tier for a request, or nil when it is not rate limited.
// Safe to call on a nil *Tiers.
func (t *Tiers) Match(method, path string) *Tier {
	if t == nil || path == HealthPath {
		return nil
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		return t.Read
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return t.Write
	default:
		return nil
	}
}

// Close stops all limiter cleanup goroutines.
func (t *Tiers) Close() {
	if t == nil {
		return
	}
	for _, tier := range []*Tier{t.Read, t.Write} {
		if tier != nil {
			tier.Limiter.Close()
		}
	}
}
