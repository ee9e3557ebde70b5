package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownRole        = errors.New("unknown role")
)

// User is the stored account record. CredentialChangedAt moves forward on
// every password change and is the authority for token revocation.
type User struct {
	ID                  int64     `json:"id"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	PasswordHash        string    `json:"-"`
	Role                Role      `json:"role"`
	IsActive            bool      `json:"is_active"`
	CredentialChangedAt time.Time `json:"credential_changed_at"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Principal is the trusted identity attached to a request after
// authentication. It lives for one request and is never persisted.
type Principal struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// NewPrincipal copies the identity fields out of a resolved user.
func NewPrincipal(u *User) *Principal {
	return &Principal{ID: u.ID, DisplayName: u.DisplayName, Role: u.Role}
}

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the decoded, not yet trusted, content of a bearer token.
// IssuedAt is zero when the token carried no iat claim.
type Claims struct {
	SubjectID int64
	IssuedAt  time.Time
}

// HasIssuedAt reports whether the token declared an issue time.
func (c Claims) HasIssuedAt() bool {
	return !c.IssuedAt.IsZero()
}
