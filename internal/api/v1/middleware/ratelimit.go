package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/deepgram/dictator/internal/config"
	"github.com/deepgram/dictator/pkg/httpext"
	"github.com/deepgram/dictator/pkg/logger"
	"github.com/deepgram/dictator/pkg/ratelimit"
)

// RateLimit limits requests per participant when authenticated, per client IP otherwise.
func RateLimit(limitKey string) func(http.Handler) http.Handler {
	cfg := config.GetRateLimitConfig(limitKey)
	limiter := ratelimit.NewLimiter(cfg.Window, cfg.MaxHits)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := GetParticipantID(r)
			if key == "" {
				key = clientIP(r)
			}

			if !limiter.Allow(key) {
				logger.Warn(logger.MIDDLEWARE, "Rate limit exceeded for %s on %s", key, limitKey)
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses X-Forwarded-For if behind proxy, otherwise the remote address
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
