package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hrpay/internal/platform/cache"
	"hrpay/internal/transport/http/api"
)

// RateLimit enforces a fixed-window per-actor request limit backed by the
// shared cache.
func RateLimit(store cache.Cache, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:" + actorOrIPKey(r)
			count, reset, err := store.Incr(r.Context(), key, window)
			if err != nil {
				// Degrade open rather than refuse traffic on cache trouble.
				slog.Warn("rate limit counter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			resetIn := int(time.Until(reset).Seconds())
			if resetIn < 0 {
				resetIn = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(max(remaining, 0), 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
				slog.Warn("rate limit exceeded",
					"key", key,
					"path", r.URL.Path,
					"method", r.Method,
					"limit", limit,
				)
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
