package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/placepack/api/internal/config"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SearchRateLimiter applies a token bucket per authenticated user, falling
// back to the client IP. Buckets idle for longer than the interval are dropped.
func SearchRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	retryAfter := strconv.Itoa(int(math.Ceil(perRequest.Seconds())))

	var (
		mu        sync.Mutex
		visitors  = map[string]*visitor{}
		lastSweep = time.Now()
	)

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > cfg.Interval {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > cfg.Interval {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
			visitors[key] = v
		}
		v.lastSeen = now
		return v.limiter.AllowN(now, 1)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserIDFromContext(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}
			if !allow(key, time.Now()) {
				c.Response().Header().Set("Retry-After", retryAfter)
				return reject(c, http.StatusTooManyRequests, "search rate limit exceeded")
			}
			return next(c)
		}
	}
}
