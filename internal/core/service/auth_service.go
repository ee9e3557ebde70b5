package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

// AuthService implements login, refresh and account management.
type AuthService struct {
	repo  ports.UserRepository
	codec *TokenCodec
	authn *Authenticator
	log   zerolog.Logger
	now   func() time.Time
}

func NewAuthService(repo ports.UserRepository, codec *TokenCodec, authn *Authenticator, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, authn: authn, log: log, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, domain.Reject(domain.KindUserInactive)
	}

	access, err := s.codec.Issue(user, domain.TokenAccess)
	if err != nil {
		return nil, nil, fmt.Errorf("login: sign access token: %w", err)
	}
	refresh, err := s.codec.Issue(user, domain.TokenRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("login: sign refresh token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Stringer("role", user.Role).Msg("user logged in")
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token goes through the same lookup, active and revocation stages as an
// access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.authn.verify(ctx, refreshToken, domain.TokenRefresh)
	if err != nil {
		return "", err
	}

	access, err := s.codec.Issue(user, domain.TokenAccess)
	if err != nil {
		return "", fmt.Errorf("refresh: sign access token: %w", err)
	}
	return access, nil
}

// ChangePassword replaces the user's password and moves the credential
// change time forward, which revokes every token issued before it.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash), s.now().UTC()); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Int64("user_id", userID).Msg("password changed, earlier tokens revoked")
	return nil
}

func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || !in.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:               email,
		DisplayName:         strings.TrimSpace(in.DisplayName),
		PasswordHash:        string(hash),
		Role:                in.Role,
		IsActive:            true,
		CredentialChangedAt: now.Truncate(time.Second), // iat precision
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) SetUserActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Bool("active", active).Msg("user status changed")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
