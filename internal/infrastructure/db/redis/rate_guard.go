package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/parts-inventory/internal/core/ports"
)

// RateLimit is the quota for one endpoint family.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// RateGuard counts requests per client in fixed windows.
// Key format: ratelimit:<family>:<client>:<window_start_unix>
type RateGuard struct {
	client *redis.Client
	limits map[ports.RateFamily]RateLimit
	now    func() time.Time
}

var _ ports.RateGuard = (*RateGuard)(nil)

// NewRateGuard creates a RateGuard wrapping the given Redis client.
func NewRateGuard(client *redis.Client, limits map[ports.RateFamily]RateLimit) *RateGuard {
	return &RateGuard{client: client, limits: limits, now: time.Now}
}

// Admit records one attempt for clientID and reports whether it fits the
// family quota. On a Redis error the returned decision allows the request;
// the caller decides whether to honour it.
func (g *RateGuard) Admit(ctx context.Context, family ports.RateFamily, clientID string) (ports.RateDecision, error) {
	lim, ok := g.limits[family]
	if !ok {
		return ports.RateDecision{Allowed: true}, fmt.Errorf("rate guard: unknown family %q", family)
	}

	now := g.now()
	windowStart := now.Truncate(lim.Window)
	key := g.key(family, clientID, windowStart)

	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, lim.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{Allowed: true}, fmt.Errorf("rate guard: %w", err)
	}

	count := int(incr.Val())
	if count > lim.Limit {
		return ports.RateDecision{
			Allowed:    false,
			RetryAfter: windowStart.Add(lim.Window).Sub(now),
		}, nil
	}
	return ports.RateDecision{Allowed: true, Remaining: lim.Limit - count}, nil
}

func (g *RateGuard) key(family ports.RateFamily, clientID string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", family, clientID, windowStart.Unix())
}
