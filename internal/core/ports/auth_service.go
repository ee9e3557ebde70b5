package ports

import (
	"context"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// CreateUserInput carries the fields an administrator supplies for a new account.
type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        domain.Role
}

// AuthService covers credential submission and account management.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) error
}

// Authenticator turns a raw bearer credential into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error)
}
