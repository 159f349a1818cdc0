package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/api/metrics"
)

// Limiter is the counting store behind the rate limit middleware.
type Limiter interface {
	Allow(ctx context.Context, scope, identifier string) (bool, error)
}

// RateLimit bounds requests per client IP within the store's window.
// Store failures fail open: throttling is protection, not a
// correctness requirement.
func RateLimit(store Limiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := store.Allow(c.Request().Context(), scope, c.RealIP())
			if err != nil {
				log.Error().Err(err).Str("scope", scope).Msg("rate limit check failed")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
