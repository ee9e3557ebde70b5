package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

type rejectionResponse struct {
	status  int
	message string
}

// rejections maps every rejection kind to its status and caller-visible
// message token.
var rejections = map[domain.RejectionKind]rejectionResponse{
	domain.KindNoToken:                   {http.StatusUnauthorized, "NO_TOKEN_PROVIDED"},
	domain.KindExpired:                   {http.StatusUnauthorized, "ACCESS_TOKEN_EXPIRED"},
	domain.KindInvalid:                   {http.StatusUnauthorized, "INVALID_ACCESS_TOKEN"},
	domain.KindUserNotFound:              {http.StatusUnauthorized, "USER_NOT_FOUND"},
	domain.KindUserInactive:              {http.StatusForbidden, "USER_INACTIVE"},
	domain.KindRevokedByCredentialChange: {http.StatusUnauthorized, "ACCESS_TOKEN_INVALIDATED_BY_PASSWORD_CHANGE"},
	domain.KindUnauthenticated:           {http.StatusUnauthorized, "Not authenticated"},
	domain.KindForbidden:                 {http.StatusForbidden, "Forbidden: insufficient permissions"},
	domain.KindRateLimited:               {http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps rejections and known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	if kind, ok := domain.KindOf(err); ok {
		if r, ok := rejections[kind]; ok {
			return r.status, r.message
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
