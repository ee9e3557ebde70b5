package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

const principalKey = "principal"

type principalCtxKey struct{}

// SetPrincipal attaches p to both the echo context and the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
}

// PrincipalFrom returns the Principal set by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the Principal carried by ctx, or nil.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p
}
