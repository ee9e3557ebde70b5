package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/parts-inventory/internal/api/middleware"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	changePasswordFn func(ctx context.Context, userID int64, current, next string) error
	createUserFn     func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getUserFn        func(ctx context.Context, id int64) (*domain.User, error)
	setUserActiveFn  func(ctx context.Context, id int64, active bool) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) SetUserActive(ctx context.Context, id int64, active bool) error {
	return s.setUserActiveFn(ctx, id, active)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			if email != "clerk@example.com" || password != "s3cret-pass" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
				&domain.User{ID: 7, Email: email, DisplayName: "Clerk", Role: domain.RoleWarehouse, IsActive: true},
				nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"clerk@example.com","password":"s3cret-pass"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "acc" || resp.RefreshToken != "ref" || resp.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp.User.ID != 7 || resp.User.Role != domain.RoleWarehouse {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password field: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_ValidationError(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"not-an-email"}`)

	assertHTTPError(t, NewAuthHandler(stub).Login(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_PassesServiceErrorThrough(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"whatever1"}`)

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "ref" {
				t.Fatalf("unexpected token %q", token)
			}
			return "new-access", nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/refresh", `{"refresh_token":"ref"}`)

	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "new-access" {
		t.Fatalf("unexpected access token %q", resp.AccessToken)
	}
}

func TestAuthHandler_Refresh_RejectionPassesThrough(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (string, error) {
			return "", domain.Reject(domain.KindRevokedByCredentialChange)
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/refresh", `{"refresh_token":"stale"}`)

	err := NewAuthHandler(stub).Refresh(c)
	if !domain.IsKind(err, domain.KindRevokedByCredentialChange) {
		t.Fatalf("expected revoked rejection, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	p := &domain.Principal{ID: 3, DisplayName: "Sales Rep", Role: domain.RoleSales}
	c, rec := newJSONContext(http.MethodGet, "/auth/me", "")
	middleware.SetPrincipal(c, p)

	if err := NewAuthHandler(&stubAuthService{}).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"id":3,"display_name":"Sales Rep","role":"SALES"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestAuthHandler_Me_WithoutPrincipal(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/auth/me", "")

	err := NewAuthHandler(&stubAuthService{}).Me(c)
	if !domain.IsKind(err, domain.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	var gotID int64
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, id int64, current, next string) error {
			gotID = id
			if current != "old-password" || next != "new-password" {
				t.Fatalf("unexpected passwords")
			}
			return nil
		},
	}
	c, rec := newJSONContext(http.MethodPut, "/auth/password", `{"current_password":"old-password","new_password":"new-password"}`)
	middleware.SetPrincipal(c, &domain.Principal{ID: 11, Role: domain.RoleClient})

	if err := NewAuthHandler(stub).ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != 11 {
		t.Fatalf("expected principal id 11, got %d", gotID)
	}
}

func TestAuthHandler_ChangePassword_SamePassword(t *testing.T) {
	c, _ := newJSONContext(http.MethodPut, "/auth/password", `{"current_password":"same-password","new_password":"same-password"}`)
	middleware.SetPrincipal(c, &domain.Principal{ID: 11, Role: domain.RoleClient})

	assertHTTPError(t, NewAuthHandler(&stubAuthService{}).ChangePassword(c), http.StatusBadRequest)
}
