package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	rateWindow      = 1 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// RateLimiter applies a per-IP sliding-window limit to an http.Handler.
// Close must be called on shutdown to stop the cleanup goroutine.
type RateLimiter struct {
	limit       int
	window      time.Duration
	requests    map[string][]time.Time
	mu          sync.Mutex
	exemptPaths map[string]bool
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// NewRateLimiter creates a limiter allowing limit requests per minute
// per IP. Requests to exemptPaths bypass the limiter.
func NewRateLimiter(limit int, exemptPaths []string) (*RateLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}
	rl := &RateLimiter{
		limit:       limit,
		window:      rateWindow,
		requests:    make(map[string][]time.Time),
		exemptPaths: lo.SliceToMap(exemptPaths, func(p string) (string, bool) { return p, true }),
		cleanupDone: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl, nil
}

// Middleware wraps next with the rate limit.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exemptPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		ip := ExtractIP(r)
		allowed, oldest := rl.allow(ip)
		if !allowed {
			retryAfter := int(rl.window.Seconds() - time.Since(oldest).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			slog.Debug("rate limit exceeded", "ip", ip, "path", r.URL.Path, "limit", rl.limit)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records the request unless the IP already used up its window.
// When denied, the second return value is the oldest in-window request,
// used for the Retry-After header.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := inWindow(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		return false, valid[0]
	}
	rl.requests[ip] = append(valid, now)
	return true, time.Time{}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.cleanupDone:
			return
		}
	}
}

// cleanup drops IPs whose entire window has expired so the map cannot
// grow without bound.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		valid := inWindow(timestamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

func inWindow(timestamps []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(timestamps, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.cleanupDone)
	})
}
