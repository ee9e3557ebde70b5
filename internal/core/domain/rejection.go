package domain

import (
	"errors"
	"fmt"
)

// RejectionKind tags a terminal authentication or authorization failure.
type RejectionKind uint8

const (
	KindNoToken RejectionKind = iota + 1
	KindExpired
	KindInvalid
	KindUserNotFound
	KindUserInactive
	KindRevokedByCredentialChange
	KindUnauthenticated
	KindForbidden
	KindRateLimited
)

var kindNames = map[RejectionKind]string{
	KindNoToken:                   "no_token",
	KindExpired:                   "expired",
	KindInvalid:                   "invalid",
	KindUserNotFound:              "user_not_found",
	KindUserInactive:              "user_inactive",
	KindRevokedByCredentialChange: "revoked_by_credential_change",
	KindUnauthenticated:           "unauthenticated",
	KindForbidden:                 "forbidden",
	KindRateLimited:               "rate_limited",
}

func (k RejectionKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// AuthError is a typed rejection. It never carries token material or
// internal error text; those stay in operator logs.
type AuthError struct {
	Kind RejectionKind
}

// Reject returns the rejection for kind.
func Reject(kind RejectionKind) *AuthError {
	return &AuthError{Kind: kind}
}

func (e *AuthError) Error() string {
	return "auth rejected: " + e.Kind.String()
}

// Is matches any *AuthError with the same kind, so callers can write
// errors.Is(err, domain.Reject(domain.KindExpired)).
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the rejection kind from err. ok is false for errors that
// are not rejections, such as store failures.
func KindOf(err error) (kind RejectionKind, ok bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a rejection of the given kind.
func IsKind(err error, kind RejectionKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
