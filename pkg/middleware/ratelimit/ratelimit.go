package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/food_client/pkg/logging"
)

const maxTrackedClients = 10000

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func (rl *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.RealIP()
		if rl.Allow(key) {
			return next(c)
		}

		logging.FromContext(c.Request().Context()).Warn("rate_limit_exceeded", "key", key, "path", c.Path())
		c.Response().Header().Set("Retry-After", retryAfter(rl.rate))
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
}

func retryAfter(r rate.Limit) string {
	if r <= 0 {
		return "60"
	}
	d := time.Duration(float64(time.Second) / float64(r))
	if d < time.Second {
		return "1"
	}
	return strconv.Itoa(int(d.Round(time.Second) / time.Second))
}
