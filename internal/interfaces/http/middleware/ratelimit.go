package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window request counter keyed by client
type RateLimiter struct {
	counters *gocache.Cache
	limit    int
	window   time.Duration
}

// NewRateLimiter allows limit requests per key in every window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counters: gocache.New(window, window*2),
		limit:    limit,
		window:   window,
	}
}

// Allow counts one request for key and reports whether it is within the limit
// together with the requests left in the current window
func (rl *RateLimiter) Allow(key string) (bool, int) {
	for {
		if err := rl.counters.Add(key, 1, rl.window); err == nil {
			return true, rl.limit - 1
		}
		n, err := rl.counters.IncrementInt(key, 1)
		if err != nil {
			// window expired between Add and IncrementInt
			continue
		}
		if n > rl.limit {
			return false, 0
		}
		return true, rl.limit - n
	}
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	v, found := rl.counters.Get(key)
	if !found {
		return rl.limit
	}
	return max(rl.limit-v.(int), 0)
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(keyFunc(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
