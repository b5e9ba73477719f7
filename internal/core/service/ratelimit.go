package service

import (
	"sync"

	"golang.org/x/time/rate"
)

// ============================================================================
// MatchLimiterRegistry - Per-Device Match Attempt Limiting
// ============================================================================

// MatchLimiterRegistry manages a token-bucket limiter per device ID.
// It throttles signature guessing: a device that keeps replaying match
// attempts against the candidate pool is slowed down, while normal
// re-record-and-retry flows pass untouched.
type MatchLimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter

	perSecond rate.Limit
	burst     int
}

// NewMatchLimiterRegistry creates a registry where each device may make
// perSecond sustained attempts with the given burst.
func NewMatchLimiterRegistry(perSecond float64, burst int) *MatchLimiterRegistry {
	if perSecond <= 0 {
		perSecond = 2
	}
	if burst <= 0 {
		burst = 5
	}
	return &MatchLimiterRegistry{
		limiters:  make(map[string]*rate.Limiter),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
	}
}

// Allow reports whether the device may make a match attempt now.
func (r *MatchLimiterRegistry) Allow(deviceID string) bool {
	return r.getOrCreate(deviceID).Allow()
}

func (r *MatchLimiterRegistry) getOrCreate(deviceID string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[deviceID]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[deviceID]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(r.perSecond, r.burst)
	r.limiters[deviceID] = limiter

	return limiter
}

// Delete removes the limiter for a device.
func (r *MatchLimiterRegistry) Delete(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.limiters, deviceID)
}

// Clear removes all limiters.
func (r *MatchLimiterRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limiters = make(map[string]*rate.Limiter)
}

// Size returns the number of tracked devices.
func (r *MatchLimiterRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}
