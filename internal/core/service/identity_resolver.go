package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

// IdentityResolver maps verified claims to the current user record.
type IdentityResolver struct {
	users ports.UserFinder
}

func NewIdentityResolver(users ports.UserFinder) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve performs exactly one store lookup. Store failures are returned
// wrapped and are never reported as UserNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, claims domain.Claims) (*domain.User, error) {
	user, err := r.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Reject(domain.KindUserNotFound)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.IsActive {
		return nil, domain.Reject(domain.KindUserInactive)
	}
	return user, nil
}
