package web

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-client counter guarding the reporting
// API from polling loops.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]limiterWindow
}

type limiterWindow struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit < 1 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return &rateLimiter{
		limit:   limit,
		window:  window,
		entries: map[string]limiterWindow{},
	}
}

func (limiter *rateLimiter) Allow(key string, now time.Time) bool {
	if key == "" {
		key = "unknown"
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	window := limiter.entries[key]
	if window.start.IsZero() || now.Sub(window.start) >= limiter.window {
		window = limiterWindow{start: now, count: 0}
	}

	if window.count >= limiter.limit {
		limiter.entries[key] = window
		return false
	}

	window.count++
	limiter.entries[key] = window
	limiter.cleanup(now)
	return true
}

func (limiter *rateLimiter) cleanup(now time.Time) {
	if len(limiter.entries) < 512 {
		return
	}

	expiry := limiter.window * 3
	for key, window := range limiter.entries {
		if now.Sub(window.start) > expiry {
			delete(limiter.entries, key)
		}
	}
}

func clientIdentity(request *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(request.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	return strings.TrimSpace(request.RemoteAddr)
}
