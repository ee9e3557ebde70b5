package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/parts-inventory/internal/api/metrics"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

// RateGuardOptions tunes the RateGuard middleware.
type RateGuardOptions struct {
	// Bypass admits every request. Only set outside production.
	Bypass bool
	Log    zerolog.Logger
}

// RateGuard throttles an endpoint family by client IP. A guard backend error
// is logged and the request is admitted.
func RateGuard(guard ports.RateGuard, family ports.RateFamily, opts RateGuardOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if opts.Bypass {
			return next
		}
		return func(c echo.Context) error {
			ip := c.RealIP()

			d, err := guard.Admit(c.Request().Context(), family, ip)
			if err != nil {
				metrics.RateGuardErrorsTotal.WithLabelValues(string(family)).Inc()
				opts.Log.Warn().Err(err).Str("family", string(family)).Msg("rate guard unavailable, admitting request")
				return next(c)
			}

			if !d.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(string(family)).Inc()
				opts.Log.Info().Str("family", string(family)).Str("ip", ip).Msg("rate limit exceeded")
				retryAfter := int(math.Ceil(d.RetryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
				return domain.Reject(domain.KindRateLimited)
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			return next(c)
		}
	}
}
