package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":     RoleAdmin,
		"admin":     RoleAdmin,
		" Sales ":   RoleSales,
		"warehouse": RoleWarehouse,
		"CLIENT":    RoleClient,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %s, want %s", in, got, want)
		}
	}
	for r := RoleAdmin; r <= RoleClient; r++ {
		if got, err := ParseRole(r.String()); err != nil || got != r {
			t.Fatalf("ParseRole(%s) round trip = %v, %v", r, got, err)
		}
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRole_JSON(t *testing.T) {
	b, err := json.Marshal(Principal{ID: 1, DisplayName: "Ana", Role: RoleWarehouse})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":1,"display_name":"Ana","role":"WAREHOUSE"}` {
		t.Fatalf("unexpected json: %s", b)
	}

	var p Principal
	if err := json.Unmarshal([]byte(`{"role":"sales"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Role != RoleSales {
		t.Fatalf("expected SALES, got %s", p.Role)
	}
	if err := json.Unmarshal([]byte(`{"role":"root"}`), &p); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestRoleSet(t *testing.T) {
	s := NewRoleSet(RoleAdmin, RoleClient, Role(0), Role(99))
	if !s.Contains(RoleAdmin) || !s.Contains(RoleClient) {
		t.Fatalf("missing members: %v", s.Roles())
	}
	if s.Contains(RoleSales) || s.Contains(Role(0)) {
		t.Fatalf("unexpected member")
	}
	if got := s.Roles(); len(got) != 2 || got[0] != RoleAdmin || got[1] != RoleClient {
		t.Fatalf("unexpected roles: %v", got)
	}
	if NewRoleSet().Contains(RoleAdmin) {
		t.Fatalf("empty set should contain nothing")
	}
}

func TestAuthError_Is(t *testing.T) {
	err := error(Reject(KindExpired))
	if !errors.Is(err, Reject(KindExpired)) {
		t.Fatalf("expected match on same kind")
	}
	if errors.Is(err, Reject(KindInvalid)) {
		t.Fatalf("unexpected match on different kind")
	}
	if _, ok := KindOf(errors.New("boom")); ok {
		t.Fatalf("plain error must not be a rejection")
	}
}
