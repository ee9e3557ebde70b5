package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/parts-inventory/internal/api/metrics"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
	"github.com/99minutos/parts-inventory/internal/core/service"
)

// Auth runs the authentication pipeline on the Authorization header and
// attaches the resulting Principal. Rejections and internal failures are
// returned to the HTTP error handler unchanged.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			raw := service.ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			p, err := authn.Authenticate(c.Request().Context(), raw)
			if err != nil {
				observeFailure(err, start)
				return err
			}

			metrics.AuthSuccessTotal.WithLabelValues(p.Role.String()).Inc()
			metrics.AuthDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func observeFailure(err error, start time.Time) {
	if kind, ok := domain.KindOf(err); ok {
		metrics.AuthRejectionsTotal.WithLabelValues(kind.String()).Inc()
		metrics.AuthDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		return
	}
	metrics.AuthInternalErrorsTotal.Inc()
	metrics.AuthDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
}
