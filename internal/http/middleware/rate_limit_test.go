package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/tourvisto-admin/pkg/auth"
)

type memCounter struct {
	counts map[string]int64
	err    error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func newLimiter(counter Counter, requests int) *RateLimiter {
	return NewRateLimiter(counter, RateLimitConfig{
		Requests: requests,
		Window:   time.Hour,
		Prefix:   "test",
		KeyFunc:  SessionOrIPKey,
	})
}

// withSession runs r through OptionalSession so SessionOrIPKey sees the claims.
func withSession(t *testing.T, r *http.Request) *http.Request {
	t.Helper()
	var out *http.Request
	OptionalSession(secret, "session")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		out = r
	})).ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, out)
	return out
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := newLimiter(&memCounter{counts: map[string]int64{}}, 2)

	got := make([]bool, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/trips/create", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		got = append(got, rl.Allow(req))
	}

	assert.Equal(t, []bool{true, true, false}, got)
}

func TestRateLimiter_KeysBySession(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	rl := newLimiter(counter, 1)

	tokA, err := auth.NewSessionToken("user-a", "a@tourvisto.test", "A", "admin", secret, time.Hour)
	require.NoError(t, err)
	tokB, err := auth.NewSessionToken("user-b", "b@tourvisto.test", "B", "admin", secret, time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{tokA, tokB} {
		req := httptest.NewRequest(http.MethodPost, "/trips/create", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("Authorization", "Bearer "+tok)
		assert.True(t, rl.Allow(withSession(t, req)))
	}
	assert.Len(t, counter.counts, 2)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := newLimiter(&memCounter{err: errors.New("redis down")}, 1)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(httptest.NewRequest(http.MethodPost, "/trips/create", nil)))
	}
}

func TestRateLimiter_ZeroLimitDisables(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	rl := newLimiter(counter, 0)

	assert.True(t, rl.Allow(httptest.NewRequest(http.MethodPost, "/trips/create", nil)))
	assert.Empty(t, counter.counts)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
