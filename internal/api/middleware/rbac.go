package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/parts-inventory/internal/api/metrics"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/service"
)

// RequireRoles enforces role-based access control. It must run after Auth;
// without a Principal the request is rejected as unauthenticated.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	check := service.RequireAnyOf(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := check(PrincipalFrom(c)); err != nil {
				if kind, ok := domain.KindOf(err); ok {
					metrics.AuthRejectionsTotal.WithLabelValues(kind.String()).Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
