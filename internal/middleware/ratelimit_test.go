package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.expires[key] = ttl
	return nil
}

func TestLimiterSharedCounter(t *testing.T) {
	counter := newFakeCounter()
	l := NewLimiter(counter, 2, time.Minute)

	assert.True(t, l.allow(context.Background(), "1.2.3.4"))
	assert.True(t, l.allow(context.Background(), "1.2.3.4"))
	assert.False(t, l.allow(context.Background(), "1.2.3.4"))

	// Other clients have their own budget.
	assert.True(t, l.allow(context.Background(), "5.6.7.8"))

	// The window key got a TTL on first increment.
	assert.Len(t, counter.expires, 2)
}

func TestLimiterFallsBackToLocalWindow(t *testing.T) {
	l := NewLimiter(&fakeCounter{err: errors.New("connection refused")}, 1, time.Minute)

	assert.True(t, l.allow(context.Background(), "1.2.3.4"))
	assert.False(t, l.allow(context.Background(), "1.2.3.4"))
}

func TestLimiterWithoutCounter(t *testing.T) {
	l := NewLimiter(nil, 1, time.Minute)

	assert.True(t, l.allow(context.Background(), "1.2.3.4"))
	assert.False(t, l.allow(context.Background(), "1.2.3.4"))
}

func TestLimiterMiddlewareRejectsWith429(t *testing.T) {
	l := NewLimiter(nil, 1, time.Minute)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", nil)
	req.RemoteAddr = "1.2.3.4:5000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "9.9.9.9:1234"
	assert.Equal(t, "9.9.9.9:1234", getClientIP(r))

	r.Header.Set("X-Real-IP", "2.2.2.2")
	assert.Equal(t, "2.2.2.2", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "1.1.1.1", getClientIP(r))
}
