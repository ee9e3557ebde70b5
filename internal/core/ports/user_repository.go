package ports

import (
	"context"
	"time"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

// UserFinder is the read side the authentication pipeline depends on.
// FindByID returns domain.ErrUserNotFound when no user has the id.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserRepository defines user persistence.
type UserRepository interface {
	UserFinder
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdatePassword stores a new hash and moves credential_changed_at to changedAt.
	UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}
