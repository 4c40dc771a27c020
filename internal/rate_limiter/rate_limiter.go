package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/MailBlast/internal/config"
	"go.uber.org/zap"
)

// FixedWindowRateLimiter counts requests per client key in fixed time
// windows. Counters reset when a new window starts.
type FixedWindowRateLimiter struct {
	cfg    config.RateLimiterConfig
	logger *zap.SugaredLogger

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	startAt time.Time
}

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &FixedWindowRateLimiter{
		cfg:     cfg,
		logger:  logger,
		windows: make(map[string]*window),
	}
}

// Allow reports whether the key may make another request in the current
// window. Disabled limiters allow everything.
func (rl *FixedWindowRateLimiter) Allow(key string) bool {
	if !rl.cfg.Enabled {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.startAt) >= rl.cfg.TimeFrame {
		rl.windows[key] = &window{count: 1, startAt: now}
		return true
	}

	if w.count >= rl.cfg.RequestsPerTimeFrame {
		rl.logger.Warnw("rate limit exceeded", "key", key)
		return false
	}

	w.count++
	return true
}

// RetryAfter returns how long the key must wait for the current window to
// end.
func (rl *FixedWindowRateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}

	remaining := rl.cfg.TimeFrame - time.Since(w.startAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
