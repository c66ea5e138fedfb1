// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FixedWindowLimiter counts requests per key inside a fixed time window.
// Once the count reaches Max, further requests are rejected until the window
// elapses, at which point the counter resets. Used for the login and contact
// endpoints, keyed by client IP.
type FixedWindowLimiter struct {
	window  time.Duration
	max     int
	mu      sync.Mutex
	entries map[string]*windowEntry
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

// NewFixedWindowLimiter creates a limiter and starts its cleanup goroutine.
func NewFixedWindowLimiter(window time.Duration, max int) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		window:  window,
		max:     max,
		entries: make(map[string]*windowEntry),
	}

	go l.cleanup()

	return l
}

// Allow records a request for key and reports whether it is within the
// window budget. It also returns the remaining budget and the moment the
// current window resets.
func (l *FixedWindowLimiter) Allow(key string) (ok bool, remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, exists := l.entries[key]

	if !exists || now.Sub(entry.windowStart) >= l.window {
		entry = &windowEntry{windowStart: now}
		l.entries[key] = entry
	}

	reset = entry.windowStart.Add(l.window)

	if entry.count >= l.max {
		return false, 0, reset
	}

	entry.count++
	return true, l.max - entry.count, reset
}

// Max returns the configured per-window budget.
func (l *FixedWindowLimiter) Max() int {
	return l.max
}

// cleanup periodically drops entries whose window has long elapsed.
func (l *FixedWindowLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, entry := range l.entries {
			if now.Sub(entry.windowStart) >= 2*l.window {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns rate-limiting middleware keyed by client IP. Rejected
// requests get a 429 JSON body with the given message plus standard
// RateLimit-* and Retry-After headers. The limiter check runs before the
// wrapped handler, so rejected logins never reach credential verification.
func (l *FixedWindowLimiter) Middleware(message string, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)

			ok, remaining, reset := l.Allow(ip)

			w.Header().Set("RateLimit-Limit", strconv.Itoa(l.max))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("RateLimit-Reset", strconv.FormatInt(int64(time.Until(reset).Seconds())+1, 10))

			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(reset).Seconds())+1, 10))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterCache is a keyed token-bucket cache with double-check locking.
type limiterCache struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
func (lc *limiterCache) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[string]*rate.Limiter)
		return true
	}
	return false
}

// GlobalRateLimiter is a per-IP token-bucket limiter applied in front of
// every route as an abuse backstop. The fixed-window limiters above enforce
// the endpoint-specific budgets.
type GlobalRateLimiter struct {
	cache      *limiterCache
	trustProxy bool
}

// NewGlobalRateLimiter creates a global rate limiter.
func NewGlobalRateLimiter(rps float64, burst int, trustProxy bool) *GlobalRateLimiter {
	return &GlobalRateLimiter{
		cache:      newLimiterCache(rps, burst),
		trustProxy: trustProxy,
	}
}

// Middleware returns the rate limiting middleware.
func (rl *GlobalRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, rl.trustProxy)

			if !rl.cache.get(ip).Allow() {
				slog.Warn("global rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": "Too many requests. Please slow down.",
				})
				return
			}

			if rl.cache.clearIfExceeds(10000) {
				slog.Info("cleared global rate limiter cache due to size")
			}

			next.ServeHTTP(w, r)
		})
	}
}
