package middlewares

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// FixedWindowLimiter is a process-wide request counter over a fixed window:
// the first request after the window elapses resets the count and starts a
// new window. State lives in memory only and is lost on restart.
type FixedWindowLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	windowStart time.Time
	count       int

	now func() time.Time // overridable in tests
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records one request and reports whether it fits in the current window.
func (l *FixedWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}
	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}

// retryAfter reports seconds until the current window resets.
func (l *FixedWindowLimiter) retryAfter() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.window - l.now().Sub(l.windowStart)
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining/time.Second) + 1
}

// RateLimit rejects requests over the limiter's budget with 429.
func RateLimit(l *FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			c.Header("Retry-After", strconv.Itoa(l.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
