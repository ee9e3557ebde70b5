package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleSales
	RoleWarehouse
	RoleClient
)

var roleNames = map[Role]string{
	RoleAdmin:     "ADMIN",
	RoleSales:     "SALES",
	RoleWarehouse: "WAREHOUSE",
	RoleClient:    "CLIENT",
}

// ParseRole converts a stored or wire role name into a Role.
// Matching is case-insensitive; unknown names are an error.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "SALES":
		return RoleSales, nil
	case "WAREHOUSE":
		return RoleWarehouse, nil
	case "CLIENT":
		return RoleClient, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is an immutable set of roles. The zero value is empty.
type RoleSet uint16

// NewRoleSet builds a set from roles; invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Roles lists the members in declaration order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(roleNames))
	for r := RoleAdmin; r <= RoleClient; r++ {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
