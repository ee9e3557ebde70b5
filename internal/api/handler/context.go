package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/parts-inventory/internal/api/middleware"
	"github.com/99minutos/parts-inventory/internal/core/domain"
)

// currentPrincipal returns the Principal attached by the Auth middleware.
// Handlers mounted without Auth get an Unauthenticated rejection instead of
// a nil dereference.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, domain.Reject(domain.KindUnauthenticated)
	}
	return p, nil
}
