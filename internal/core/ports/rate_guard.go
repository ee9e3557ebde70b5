package ports

import (
	"context"
	"time"
)

// RateFamily names a group of sensitive endpoints sharing one quota.
type RateFamily string

const (
	RateFamilyLogin   RateFamily = "login"
	RateFamilyRefresh RateFamily = "refresh"
)

// RateDecision is the outcome of an admission check.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateGuard throttles sensitive endpoints per client address.
type RateGuard interface {
	Admit(ctx context.Context, family RateFamily, clientID string) (RateDecision, error)
}
