package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

var rateLimitedMessages = map[string]string{
	LocaleZH: "请求过于频繁，请稍后再试",
	LocaleEN: "Too many requests, please retry later",
}

type bucket struct {
	count int
	until time.Time
}

type limiter struct {
	limit int
	per   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(limit int, per time.Duration) *limiter {
	return &limiter{limit: limit, per: per, now: time.Now, buckets: make(map[string]*bucket)}
}

// allow counts one request for ip. When the window is full it returns the
// whole seconds until the window resets.
func (l *limiter) allow(ip string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[ip]
	if !ok || now.After(b.until) {
		l.pruneExpired(now)
		b = &bucket{until: now.Add(l.per)}
		l.buckets[ip] = b
	}
	if b.count >= l.limit {
		return false, int(b.until.Sub(now).Seconds()) + 1
	}
	b.count++
	return true, 0
}

func (l *limiter) pruneExpired(now time.Time) {
	for ip, b := range l.buckets {
		if now.After(b.until) {
			delete(l.buckets, ip)
		}
	}
}

// RateLimit allows limit requests per client IP in each fixed window of length per.
// A non-positive limit disables limiting.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newLimiter(limit, per).middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := l.allow(clientIPForRateLimit(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeRateLimited(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeRateLimited answers in the same envelope the API handlers use.
func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	msg, ok := rateLimitedMessages[LocaleFromContext(r.Context())]
	if !ok {
		msg = rateLimitedMessages[LocaleZH]
	}
	body := map[string]any{
		"success": false,
		"error": map[string]string{
			"code":       "rate_limited",
			"message":    msg,
			"request_id": RequestIDFromContext(r.Context()),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			if ip := strings.TrimSpace(part); net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
