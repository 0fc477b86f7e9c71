package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*FixedWindowLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
	store := &MemoryCounterStore{
		entries: make(map[string]*windowEntry),
		now:     clock.now,
	}
	l := NewFixedWindowLimiter(store, limit, window)
	l.now = clock.now
	return l, clock
}

func TestFixedWindowLimiter_DeniesOverLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 1; i <= 3; i++ {
		d := l.Check("alice@example.com")
		if !d.Allowed {
			t.Fatalf("request %d denied inside the limit", i)
		}
		if d.Remaining != 3-i {
			t.Errorf("request %d: remaining = %d, want %d", i, d.Remaining, 3-i)
		}
	}

	d := l.Check("alice@example.com")
	if d.Allowed {
		t.Error("4th request in the window was admitted")
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d, want 0 after denial", d.Remaining)
	}
	if d.ResetIn <= 0 || d.ResetIn > time.Minute {
		t.Errorf("ResetIn = %v, want within (0, 1m]", d.ResetIn)
	}
}

func TestFixedWindowLimiter_PerUserIsolation(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if d := l.Check("alice@example.com"); !d.Allowed {
		t.Fatal("alice's first request denied")
	}
	if d := l.Check("bob@example.com"); !d.Allowed {
		t.Error("bob denied by alice's consumption")
	}
	if d := l.Check("alice@example.com"); d.Allowed {
		t.Error("alice's second request admitted over a limit of 1")
	}
}

func TestFixedWindowLimiter_LazyWindowReset(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Check("alice@example.com")
	l.Check("alice@example.com")
	if d := l.Check("alice@example.com"); d.Allowed {
		t.Fatal("over-limit request admitted")
	}

	clock.advance(61 * time.Second)

	d := l.Check("alice@example.com")
	if !d.Allowed {
		t.Error("request denied after the window elapsed")
	}
	if d.Remaining != 1 {
		t.Errorf("remaining = %d, want 1 in the fresh window", d.Remaining)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(l)(next)

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("/v1/analyze-ticket"); rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d", rec.Code)
	}
	rec := do("/v1/analyze-ticket")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 without Retry-After header")
	}
	if calls != 1 {
		t.Errorf("denied request reached the handler (calls=%d)", calls)
	}

	// health is exempt
	if rec := do("/health"); rec.Code != http.StatusOK {
		t.Errorf("health check rate limited: status %d", rec.Code)
	}
}
