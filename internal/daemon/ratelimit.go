package daemon

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	bucketCleanupInterval = 5 * time.Minute
	bucketIdleTimeout     = 10 * time.Minute
)

// RateLimiter is a per-IP token bucket guarding the relay's mutating routes.
type RateLimiter struct {
	clock   clockwork.Clock
	buckets sync.Map // ip -> *bucket
	rate    float64  // tokens per second
	burst   int

	cleanupTicker clockwork.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter allows bursts of up to burst requests per IP, refilled at
// rate tokens per second. A nil clock uses the real clock.
func NewRateLimiter(rate float64, burst int, clock clockwork.Clock) *RateLimiter {

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	rl := &RateLimiter{
		clock:       clock,
		rate:        rate,
		burst:       burst,
		stopCleanup: make(chan struct{}),
	}

	rl.cleanupTicker = clock.NewTicker(bucketCleanupInterval)
	go rl.cleanup()

	logrus.WithFields(logrus.Fields{
		"rate":  rate,
		"burst": burst,
	}).Debugln("Rate limiter initialized")

	return rl
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !rl.Allow(ip) {
			logrus.WithFields(logrus.Fields{
				"ip":     ip,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	now := rl.clock.Now()

	value, _ := rl.buckets.LoadOrStore(ip, &bucket{
		tokens:     float64(rl.burst),
		lastRefill: now,
	})

	b := value.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.rate
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}

	return false
}

// sweep drops buckets idle for longer than bucketIdleTimeout and returns
// how many were removed.
func (rl *RateLimiter) sweep() int {
	cutoff := rl.clock.Now().Add(-bucketIdleTimeout)
	count := 0

	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		stale := b.lastRefill.Before(cutoff)
		b.mu.Unlock()

		if stale {
			rl.buckets.Delete(key)
			count++
		}
		return true
	})

	return count
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.Chan():
			if count := rl.sweep(); count > 0 {
				logrus.WithField("count", count).Debug("Cleaned up stale rate limiter buckets")
			}
		case <-rl.stopCleanup:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Size returns the number of tracked IPs.
func (rl *RateLimiter) Size() int {
	count := 0
	rl.buckets.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
