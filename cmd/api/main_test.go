package main

import (
	"context"
	"io"
	"testing"

	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
	"github.com/99minutos/parts-inventory/internal/pkg/config"
	"github.com/99minutos/parts-inventory/pkg/logger"
)

type recordingAuthService struct {
	ports.AuthService
	created []ports.CreateUserInput
	err     error
}

func (s *recordingAuthService) CreateUser(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	s.created = append(s.created, in)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: 1, Email: in.Email, Role: in.Role, IsActive: true}, nil
}

func initTestLogger(t *testing.T) {
	t.Helper()
	logger.Reset()
	logger.Init(logger.Options{Output: io.Discard})
	t.Cleanup(logger.Reset)
}

func TestBootstrapAdmin_CreatesAdmin(t *testing.T) {
	initTestLogger(t)
	svc := &recordingAuthService{}

	bootstrapAdmin(context.Background(), svc, config.BootstrapConfig{Email: "root@example.com", Password: "root-password"})

	if len(svc.created) != 1 {
		t.Fatalf("expected one CreateUser call, got %d", len(svc.created))
	}
	in := svc.created[0]
	if in.Email != "root@example.com" || in.Password != "root-password" || in.Role != domain.RoleAdmin {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestBootstrapAdmin_ExistingAdminIsKept(t *testing.T) {
	initTestLogger(t)
	svc := &recordingAuthService{err: domain.ErrUserExists}

	bootstrapAdmin(context.Background(), svc, config.BootstrapConfig{Email: "root@example.com", Password: "root-password"})

	if len(svc.created) != 1 {
		t.Fatalf("expected one CreateUser call, got %d", len(svc.created))
	}
}
