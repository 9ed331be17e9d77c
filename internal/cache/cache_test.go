package cache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazighishop/shop_api/internal/models"
)

type memEntry struct {
	value   string
	expires time.Time
}

// memKV is an in-memory KV with a controllable clock.
type memKV struct {
	mu   sync.Mutex
	now  time.Time
	data map[string]memEntry
}

func newMemKV() *memKV {
	return &memKV{now: time.Unix(1700000000, 0), data: map[string]memEntry{}}
}

func (m *memKV) advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func (m *memKV) live(key string) (memEntry, bool) {
	e, ok := m.data[key]
	if !ok || (!e.expires.IsZero() && !m.now.Before(e.expires)) {
		return memEntry{}, false
	}
	return e, true
}

func (m *memKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = m.now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return 0, ErrMiss
	}
	if e.expires.IsZero() {
		return 0, nil
	}
	return e.expires.Sub(m.now), nil
}

func (m *memKV) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, _ := m.live(key)
	n, _ := strconv.ParseInt(e.value, 10, 64)
	n++
	e.value = strconv.FormatInt(n, 10)
	m.data[key] = e
	return n, nil
}

func TestVerificationCache_CodeLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	c := NewVerificationCache(kv)

	require.NoError(t, c.SaveCode(ctx, "User@Shop.tn ", "123456", 15*time.Minute))

	code, err := c.Code(ctx, "user@shop.tn")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	kv.advance(15 * time.Minute)
	_, err = c.Code(ctx, "user@shop.tn")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestVerificationCache_Cooldown(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	c := NewVerificationCache(kv)

	remaining, err := c.CooldownRemaining(ctx, "a@b.tn")
	require.NoError(t, err)
	assert.Zero(t, remaining)

	require.NoError(t, c.StartCooldown(ctx, "a@b.tn", time.Minute))
	kv.advance(20 * time.Second)

	remaining, err = c.CooldownRemaining(ctx, "a@b.tn")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, remaining)

	kv.advance(40 * time.Second)
	remaining, err = c.CooldownRemaining(ctx, "a@b.tn")
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestVerificationCache_ResetToken(t *testing.T) {
	ctx := context.Background()
	c := NewVerificationCache(newMemKV())

	require.NoError(t, c.SaveResetToken(ctx, "tok", "A@B.tn", time.Hour))
	email, err := c.ResetEmail(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.tn", email)

	require.NoError(t, c.DeleteResetToken(ctx, "tok"))
	_, err = c.ResetEmail(ctx, "tok")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCatalogCache_InvalidateDropsBounds(t *testing.T) {
	ctx := context.Background()
	c := NewCatalogCache(newMemKV(), 5*time.Minute)

	_, err := c.Bounds(ctx, 1)
	assert.ErrorIs(t, err, ErrMiss)

	b := &models.PriceBounds{Min: decimal.RequireFromString("1.5"), Max: decimal.RequireFromString("40")}
	require.NoError(t, c.SetBounds(ctx, 1, b))

	got, err := c.Bounds(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Min.Equal(b.Min))
	assert.True(t, got.Max.Equal(b.Max))

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Bounds(ctx, 1)
	assert.ErrorIs(t, err, ErrMiss)
}
