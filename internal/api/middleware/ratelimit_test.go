package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

type stubGuard struct {
	decision  ports.RateDecision
	err       error
	gotFamily ports.RateFamily
	gotClient string
	calls     int
}

func (g *stubGuard) Admit(_ context.Context, family ports.RateFamily, clientID string) (ports.RateDecision, error) {
	g.calls++
	g.gotFamily = family
	g.gotClient = clientID
	return g.decision, g.err
}

func newRateContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateGuard_Admits(t *testing.T) {
	guard := &stubGuard{decision: ports.RateDecision{Allowed: true, Remaining: 3}}
	c, rec := newRateContext()

	called := false
	handler := RateGuard(guard, ports.RateFamilyLogin, RateGuardOptions{Log: zerolog.Nop()})(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if guard.gotFamily != ports.RateFamilyLogin || guard.gotClient != "192.0.2.10" {
		t.Fatalf("unexpected key: %s %s", guard.gotFamily, guard.gotClient)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "3" {
		t.Fatalf("expected remaining header, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateGuard_Denies(t *testing.T) {
	guard := &stubGuard{decision: ports.RateDecision{Allowed: false, RetryAfter: 90500 * time.Millisecond}}
	c, rec := newRateContext()

	handler := RateGuard(guard, ports.RateFamilyLogin, RateGuardOptions{Log: zerolog.Nop()})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !domain.IsKind(err, domain.KindRateLimited) {
		t.Fatalf("expected RateLimited, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "91" {
		t.Fatalf("expected Retry-After 91, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateGuard_BackendErrorAdmits(t *testing.T) {
	guard := &stubGuard{decision: ports.RateDecision{Allowed: true}, err: errors.New("redis down")}
	c, _ := newRateContext()

	called := false
	handler := RateGuard(guard, ports.RateFamilyRefresh, RateGuardOptions{Log: zerolog.Nop()})(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("expected request to be admitted")
	}
}

func TestRateGuard_Bypass(t *testing.T) {
	guard := &stubGuard{decision: ports.RateDecision{Allowed: false}}
	c, _ := newRateContext()

	called := false
	handler := RateGuard(guard, ports.RateFamilyLogin, RateGuardOptions{Bypass: true})(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || guard.calls != 0 {
		t.Fatalf("expected guard to be skipped (called=%v, calls=%d)", called, guard.calls)
	}
}
