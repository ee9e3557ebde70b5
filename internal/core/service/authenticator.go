package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/parts-inventory/internal/core/domain"
)

// Authenticator runs the ordered authentication stages. The first failing
// stage decides the outcome and later stages do not run:
//
//	presence -> signature/expiry -> user lookup -> active -> revocation
type Authenticator struct {
	codec    *TokenCodec
	resolver *IdentityResolver
	log      zerolog.Logger
}

func NewAuthenticator(codec *TokenCodec, resolver *IdentityResolver, log zerolog.Logger) *Authenticator {
	return &Authenticator{codec: codec, resolver: resolver, log: log}
}

// Authenticate verifies an access token and returns the Principal it names.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error) {
	user, err := a.verify(ctx, rawToken, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}

// verify runs every stage for a token of type typ and returns the resolved
// user. It is shared by access-token authentication and token refresh.
func (a *Authenticator) verify(ctx context.Context, rawToken string, typ domain.TokenType) (*domain.User, error) {
	if rawToken == "" {
		return nil, domain.Reject(domain.KindNoToken)
	}

	claims, err := a.codec.DecodeAndVerify(rawToken, typ)
	if err != nil {
		return nil, err
	}

	user, err := a.resolver.Resolve(ctx, claims)
	if err != nil {
		a.logResolveFailure(claims, err)
		return nil, err
	}

	if IsRevoked(claims, user) {
		a.log.Info().
			Int64("user_id", user.ID).
			Time("issued_at", claims.IssuedAt).
			Time("credential_changed_at", user.CredentialChangedAt).
			Msg("token issued before credential change")
		return nil, domain.Reject(domain.KindRevokedByCredentialChange)
	}

	return user, nil
}

func (a *Authenticator) logResolveFailure(claims domain.Claims, err error) {
	var ev *zerolog.Event
	switch {
	case domain.IsKind(err, domain.KindUserNotFound), domain.IsKind(err, domain.KindUserInactive):
		ev = a.log.Info()
	default:
		ev = a.log.Error()
	}
	ev.Err(err).Int64("user_id", claims.SubjectID).Msg("identity resolution failed")
}
