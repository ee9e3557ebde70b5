package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/parts-inventory/internal/core/ports"
)

func newTestGuard(t *testing.T, now time.Time) (*RateGuard, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	g := NewRateGuard(client, map[ports.RateFamily]RateLimit{
		ports.RateFamilyLogin:   {Limit: 5, Window: 15 * time.Minute},
		ports.RateFamilyRefresh: {Limit: 10, Window: time.Hour},
	})
	g.now = func() time.Time { return now }
	return g, mr
}

func TestRateGuard_LoginQuota(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 3, 0, 0, time.UTC)
	g, _ := newTestGuard(t, now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i+1)
		assert.Equal(t, 4-i, d.Remaining)
	}

	d, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 12*time.Minute, d.RetryAfter)
}

func TestRateGuard_KeyedByClientAndFamily(t *testing.T) {
	g, _ := newTestGuard(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.1")
		require.NoError(t, err)
	}

	d, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = g.Admit(ctx, ports.RateFamilyRefresh, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 9, d.Remaining)
}

func TestRateGuard_NewWindowResets(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	g, _ := newTestGuard(t, start)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.1")
		require.NoError(t, err)
	}

	g.now = func() time.Time { return start.Add(15 * time.Minute) }
	d, err := g.Admit(ctx, ports.RateFamilyLogin, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateGuard_SetsExpiry(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	g, mr := newTestGuard(t, now)

	_, err := g.Admit(context.Background(), ports.RateFamilyRefresh, "10.0.0.9")
	require.NoError(t, err)

	key := g.key(ports.RateFamilyRefresh, "10.0.0.9", now.Truncate(time.Hour))
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestRateGuard_RedisDown(t *testing.T) {
	g, mr := newTestGuard(t, time.Now())
	mr.Close()

	d, err := g.Admit(context.Background(), ports.RateFamilyLogin, "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}

func TestRateGuard_UnknownFamily(t *testing.T) {
	g, _ := newTestGuard(t, time.Now())

	_, err := g.Admit(context.Background(), ports.RateFamily("upload"), "10.0.0.1")
	assert.Error(t, err)
}
