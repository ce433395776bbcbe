package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterStore_Window(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryCounterStore(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, reset, err := store.Hit(ctx, "u1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.Equal(t, time.Minute, reset)
	}

	n, _, _ := store.Hit(ctx, "u2", time.Minute)
	assert.Equal(t, int64(1), n, "keys are independent")

	now = now.Add(30 * time.Second)
	_, reset, _ := store.Hit(ctx, "u1", time.Minute)
	assert.Equal(t, 30*time.Second, reset)

	now = now.Add(31 * time.Second)
	n, reset, _ = store.Hit(ctx, "u1", time.Minute)
	assert.Equal(t, int64(1), n, "window restarts")
	assert.Equal(t, time.Minute, reset)
}

func TestRedisCounterStore_FallsBackWithoutRedis(t *testing.T) {
	store := NewRedisCounterStore(NewRedisFromClient(nil, nil))

	n, _, err := store.Hit(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, _, _ = store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, int64(2), n)
}

func TestRedis_BypassWhenUnavailable(t *testing.T) {
	r := NewRedisFromClient(nil, nil)
	ctx := context.Background()

	var out map[string]string
	hit, err := r.GetJSON(ctx, "k", &out)
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, r.SetJSON(ctx, "k", map[string]string{"a": "b"}, 0))

	ok, err := r.SetIfNotExists(ctx, "lock", "1", 0)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)
}
