package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// CounterStore is the fixed-window counter keyed by user identity. The
// in-process implementation below suits a single instance; a multi-instance
// deployment must back this interface with an externally shared, atomically
// updated store instead.
type CounterStore interface {
	Increment(key string, window time.Duration) (count int, resetAt time.Time)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore keeps per-user windows in a mutable map, reset lazily on
// the first request after the window elapses.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	s := &MemoryCounterStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}

	// Drop windows that elapsed long ago so the map doesn't grow unbounded
	go s.cleanup()

	return s
}

func (s *MemoryCounterStore) Increment(key string, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &windowEntry{count: 0, resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt
}

func (s *MemoryCounterStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := s.now()
		for key, e := range s.entries {
			if now.Sub(e.resetAt) > 10*time.Minute {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// Decision is the admission result for one request.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// FixedWindowLimiter admits a bounded number of requests per user per window.
type FixedWindowLimiter struct {
	store  CounterStore
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewFixedWindowLimiter(store CounterStore, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{store: store, limit: limit, window: window, now: time.Now}
}

// Check consumes one slot for userID and reports whether the request is
// admitted, how many slots remain, and when the window resets.
func (l *FixedWindowLimiter) Check(userID string) Decision {
	count, resetAt := l.store.Increment(userID, l.window)
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	resetIn := resetAt.Sub(l.now())
	if resetIn < 0 {
		resetIn = 0
	}
	return Decision{
		Allowed:   count <= l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// RateLimitMiddleware guards the model-invoking endpoints: a denied request
// is rejected before any model call is made.
func RateLimitMiddleware(limiter *FixedWindowLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip rate limit for health check and metrics
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			user := GetUserFromContext(r.Context())
			if user == "" {
				user = r.RemoteAddr
			}

			d := limiter.Check(user)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(d.ResetIn.Seconds())))

			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(d.ResetIn.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": fmt.Sprintf("rate limit exceeded, retry in %ds", int(d.ResetIn.Seconds())),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
