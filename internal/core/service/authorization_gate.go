package service

import "github.com/99minutos/parts-inventory/internal/core/domain"

// Check decides whether principal may perform a guarded operation.
// A nil principal means authentication did not happen.
type Check func(principal *domain.Principal) error

// RequireAnyOf returns a Check allowing principals whose role is one of roles.
func RequireAnyOf(roles ...domain.Role) Check {
	allowed := domain.NewRoleSet(roles...)
	return func(p *domain.Principal) error {
		if p == nil {
			return domain.Reject(domain.KindUnauthenticated)
		}
		if !allowed.Contains(p.Role) {
			return domain.Reject(domain.KindForbidden)
		}
		return nil
	}
}
