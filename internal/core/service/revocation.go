package service

import "github.com/99minutos/parts-inventory/internal/core/domain"

// IsRevoked reports whether the token was issued strictly before the user's
// last credential change. Tokens without iat are not revoked by this check.
//
// iat has second granularity, so a token minted after a password change but
// within the same second compares as older and is revoked.
func IsRevoked(claims domain.Claims, user *domain.User) bool {
	if !claims.HasIssuedAt() {
		return false
	}
	return claims.IssuedAt.Unix()*1000 < user.CredentialChangedAt.UnixMilli()
}
