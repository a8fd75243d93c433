package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

// Counter counts hits per key inside a fixed window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int                            // Max requests per window
	Window   time.Duration                  // Time window duration
	Prefix   string                         // Namespace for the counter keys
	KeyFunc  func(r *http.Request) []string // Function to generate rate limit keys
}

// RateLimiter provides rate limiting functionality
type RateLimiter struct {
	counter Counter
	config  RateLimitConfig
}

func NewRateLimiter(counter Counter, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{counter: counter, config: config}
}

// Allow charges one hit against every key of r and reports whether all of
// them are still within the limit. A limit of zero or less disables the
// check.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	if rl.config.Requests <= 0 {
		return true
	}
	for _, key := range rl.config.KeyFunc(r) {
		if !rl.allow(r.Context(), key) {
			logger.WarnContext(r.Context(), "Rate limit exceeded", "prefix", rl.config.Prefix)
			return false
		}
	}
	return true
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key for privacy
	sum := sha256.Sum256([]byte(key))
	count, err := rl.counter.Incr(ctx, fmt.Sprintf("ratelimit:%s:%x", rl.config.Prefix, sum), rl.config.Window)
	if err != nil {
		// Fail open
		logger.WarnContext(ctx, "Rate limit counter unavailable", "error", err)
		return true
	}
	return count <= int64(rl.config.Requests)
}

// SessionOrIPKey limits signed-in admins per account and everyone else per
// client IP.
func SessionOrIPKey(r *http.Request) []string {
	if c := Claims(r); c != nil {
		return []string{"user:" + c.Sub}
	}
	if ip := getClientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
