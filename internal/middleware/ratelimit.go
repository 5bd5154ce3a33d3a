package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/templui/goalnudge/internal/ctxkeys"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// RateLimiter is a sliding-window counter per key. Idle keys are swept on
// the first Allow after each window has elapsed.
type RateLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	recent := prune(rl.hits[key], cutoff)
	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false
	}
	rl.hits[key] = append(recent, now)
	return true
}

// RetryAfter is the number of seconds until the oldest hit for key leaves
// the window.
func (rl *RateLimiter) RetryAfter(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := rl.hits[key]
	if len(hits) == 0 {
		return 0
	}
	wait := hits[0].Add(rl.window).Sub(rl.now())
	return max(1, int(wait.Round(time.Second).Seconds()))
}

func (rl *RateLimiter) sweep(cutoff time.Time) {
	for key, hits := range rl.hits {
		if len(prune(hits, cutoff)) == 0 {
			delete(rl.hits, key)
		}
	}
}

// prune drops hits at or before cutoff. hits are in insertion order.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// RateLimitReplies limits the inbound reply webhook to 60 requests per
// minute per client IP.
func RateLimitReplies() func(http.HandlerFunc) http.HandlerFunc {
	return RateLimit(NewRateLimiter(60, time.Minute), ClientIP)
}

// RateLimitTriggers limits slot triggers to 30 per minute per scheduler
// subject. It must run inside RequireScheduler.
func RateLimitTriggers() func(http.HandlerFunc) http.HandlerFunc {
	return RateLimit(NewRateLimiter(30, time.Minute), SchedulerSubject)
}

func RateLimit(limiter *RateLimiter, key KeyFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !limiter.Allow(k) {
				slog.Warn("rate limit exceeded", "key", k, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(limiter.RetryAfter(k)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests"}`))
				return
			}

			next(w, r)
		}
	}
}

// SchedulerSubject keys on the authenticated scheduler, falling back to the
// client IP.
func SchedulerSubject(r *http.Request) string {
	if subject := ctxkeys.Scheduler(r.Context()); subject != "" {
		return "scheduler:" + subject
	}
	return ClientIP(r)
}

// ClientIP prefers proxy headers over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
