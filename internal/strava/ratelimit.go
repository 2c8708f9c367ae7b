package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava allows 100 requests per 15 minutes and 1000 per day.
const (
	DefaultShortLimit    = 100
	DefaultDailyLimit    = 1000
	ShortWindow          = 15 * time.Minute
	DefaultMinInterval   = 150 * time.Millisecond
	rateLimitUsageHeader = "X-RateLimit-Usage"
	rateLimitLimitHeader = "X-RateLimit-Limit"
)

// window is one quota with its reset time
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
	next     func(now time.Time) time.Time
}

func (w *window) roll(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = w.next(now)
	}
}

func (w *window) exhausted() bool {
	return w.usage >= w.limit
}

// RateLimiter keeps requests inside Strava's quotas
type RateLimiter struct {
	mu sync.Mutex

	short window
	daily window

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with Strava's published limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	short := func(t time.Time) time.Time { return t.Add(ShortWindow) }
	daily := func(t time.Time) time.Time { return t.Truncate(24 * time.Hour).Add(24 * time.Hour) }
	return &RateLimiter{
		short:       window{limit: DefaultShortLimit, resetsAt: short(now), next: short},
		daily:       window{limit: DefaultDailyLimit, resetsAt: daily(now), next: daily},
		minInterval: DefaultMinInterval,
	}
}

// Wait blocks until a request can be made without exceeding the quotas
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range []*window{&r.short, &r.daily} {
		w.roll(time.Now())
		if !w.exhausted() {
			continue
		}
		if err := r.sleep(ctx, time.Until(w.resetsAt)); err != nil {
			return err
		}
		w.usage = 0
		w.resetsAt = w.next(time.Now())
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()
	return nil
}

// sleep waits with the lock released. The caller holds r.mu.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs usage and limits with Strava's response headers,
// e.g. X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get(rateLimitUsageHeader)); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := parsePair(h.Get(rateLimitLimitHeader)); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

// Status returns the remaining requests in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}

func parsePair(v string) (int, int, bool) {
	first, second, ok := strings.Cut(v, ",")
	if !ok {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
