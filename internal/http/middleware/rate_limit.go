package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/http/response"
	"github.com/trailmark/experiences-api/pkg/config"
)

// RateLimiter is a fixed-window per-IP limiter backed by redis.
// Intended for the credential endpoints. Fails open: a redis outage
// must not take logins down with it.
type RateLimiter struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{rdb: rdb, cfg: cfg}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.allow(r.Context(), "ip:"+clientIP(r)) {
				response.WriteAppError(w, domain.E(domain.CodeRateLimited, "too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	// Hash the key so raw IPs never land in redis.
	sum := sha256.Sum256([]byte(key))
	redisKey := fmt.Sprintf("ratelimit:%x", sum)

	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		rl.rdb.Expire(ctx, redisKey, rl.cfg.Window)
	}
	return count <= int64(rl.cfg.Requests)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
