package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/citypooh/Artinerary/internal/cache"
)

// Counter is the slice of the cache the limiter needs. Nil means no
// shared store is configured and counting happens in process memory.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Limiter enforces a fixed-window per-IP request budget. With a Redis
// counter the window is shared across instances; without one it degrades
// to a local map, which is fine for a single process.
type Limiter struct {
	counter Counter
	limit   int
	window  time.Duration

	mu    sync.Mutex
	local map[string]*localWindow
}

type localWindow struct {
	start time.Time
	count int
}

func NewLimiter(counter Counter, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		counter: counter,
		limit:   limit,
		window:  window,
		local:   make(map[string]*localWindow),
	}
}

// Middleware rejects requests over the budget with 429 and a Retry-After
// hint.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)
		if !l.allow(r.Context(), clientIP) {
			log.Warn().
				Str("client_ip", clientIP).
				Str("url", r.URL.String()).
				Msg("Rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"code":    "RATE_LIMIT",
					"message": "Rate limit exceeded. Please try again later.",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) allow(ctx context.Context, clientIP string) bool {
	if l.counter != nil {
		windowStart := time.Now().Truncate(l.window)
		key := cache.RateLimitKey(clientIP, windowStart)
		n, err := l.counter.Incr(ctx, key)
		if err == nil {
			if n == 1 {
				if err := l.counter.Expire(ctx, key, l.window); err != nil {
					log.Warn().Err(err).Msg("Failed to set rate-limit key TTL")
				}
			}
			return n <= int64(l.limit)
		}
		log.Warn().Err(err).Msg("Rate-limit counter unavailable; using local window")
	}
	return l.allowLocal(clientIP)
}

func (l *Limiter) allowLocal(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.local[clientIP]
	if !ok || now.Sub(w.start) >= l.window {
		l.local[clientIP] = &localWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// getClientIP resolves the real client address behind proxies.
func getClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		if i := strings.IndexByte(forwardedFor, ','); i > 0 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return forwardedFor
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
