package dispatch

import (
	"sync"

	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// userRateLimiter throttles sends per user. User 0 (anonymous) shares one
// limiter.
type userRateLimiter struct {
	enabled  bool
	limiters map[int64]*rate.Limiter
	mu       sync.RWMutex
	rpm      int
	burst    int
	logger   *logrus.Logger
}

func newUserRateLimiter(cfg *config.RateLimitConfig, logger *logrus.Logger) *userRateLimiter {
	if !cfg.Enabled {
		return &userRateLimiter{enabled: false}
	}

	return &userRateLimiter{
		enabled:  true,
		limiters: make(map[int64]*rate.Limiter),
		rpm:      cfg.RequestsPerMinute,
		burst:    cfg.Burst,
		logger:   logger,
	}
}

// allow checks if a user may send right now
func (r *userRateLimiter) allow(userID int64) bool {
	if !r.enabled {
		return true
	}

	allowed := r.getLimiter(userID).Allow()
	if !allowed {
		r.logger.WithField("user_id", userID).Warn("Rate limit exceeded")
	}
	return allowed
}

// getLimiter gets or creates a rate limiter for a user
func (r *userRateLimiter) getLimiter(userID int64) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[userID]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[userID]; exists {
		return limiter
	}

	rps := float64(r.rpm) / 60.0
	limiter = rate.NewLimiter(rate.Limit(rps), r.burst)
	r.limiters[userID] = limiter

	return limiter
}
