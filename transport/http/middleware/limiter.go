package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	"skybook/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// hit counts one request against key and returns the count inside the current window.
// The window restarts with every counted request.
func (a *appMiddleware) hit(ctx context.Context, key string) (int, error) {
	var count int

	err := a.cache.Get(ctx, key, &count)
	if err != nil && !errors.Is(err, cache.Nil) {
		return 0, err //nolint:wrapcheck
	}

	count++

	if count > a.config.App.RateLimiter.MaxRequests {
		return count, nil
	}

	if err = a.cache.Save(ctx, key, count, a.config.App.RateLimiter.WindowSeconds); err != nil {
		return 0, err //nolint:wrapcheck
	}

	return count, nil
}

// RateLimit is a fixed window per client IP and user agent, kept in redis. A redis failure
// lets the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limits.Enable {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent(r))

			count, err := a.hit(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			if count > limits.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(limits.MaxRequests-count))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownAgent
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := strings.TrimSpace(r.Header.Get(constant.RequestHeaderRealIP)); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
