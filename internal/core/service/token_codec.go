package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

const (
	bearerPrefix      = "Bearer "
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// tokenClaims is the wire form of both access and refresh tokens.
type tokenClaims struct {
	UserID    int64            `json:"user_id"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a single shared secret.
// It never touches the user store.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

// ExtractBearerToken strips an optional "Bearer " prefix from an
// Authorization header value. Without the prefix the whole value is the token.
func ExtractBearerToken(header string) string {
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return strings.TrimSpace(header)
}

// Issue mints a token of the given type for user.
func (c *TokenCodec) Issue(user *domain.User, typ domain.TokenType) (string, error) {
	ttl := c.accessTTL
	if typ == domain.TokenRefresh {
		ttl = c.refreshTTL
	}

	now := c.now()
	claims := tokenClaims{
		UserID:    user.ID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// DecodeAndVerify checks the signature and validity window of raw and
// returns its claims. Failures are *domain.AuthError with kind NoToken,
// Expired or Invalid.
func (c *TokenCodec) DecodeAndVerify(raw string, want domain.TokenType) (domain.Claims, error) {
	if raw == "" {
		return domain.Claims{}, domain.Reject(domain.KindNoToken)
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.log.Debug().Str("token_type", string(want)).Msg("token expired")
			return domain.Claims{}, domain.Reject(domain.KindExpired)
		}
		return domain.Claims{}, c.invalid(want, err.Error())
	}

	if tc.UserID <= 0 {
		return domain.Claims{}, c.invalid(want, "missing subject")
	}
	if tc.TokenType != want {
		return domain.Claims{}, c.invalid(want, "unexpected token type "+strconv.Quote(string(tc.TokenType)))
	}

	claims := domain.Claims{SubjectID: tc.UserID}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	return claims, nil
}

func (c *TokenCodec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}

func (c *TokenCodec) invalid(want domain.TokenType, reason string) error {
	c.log.Warn().Str("token_type", string(want)).Str("reason", reason).Msg("invalid token")
	return domain.Reject(domain.KindInvalid)
}
