package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := mc.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = mc.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "short", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := mc.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := mc.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, mc.Delete(ctx, "k"))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, mc.Delete(ctx, "k"))
}

func TestMemoryCacheClearPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	doctorA := "0b2f7a7e-1111-4f7e-9a1a-000000000001"
	doctorB := "0b2f7a7e-2222-4f7e-9a1a-000000000002"
	require.NoError(t, mc.Set(ctx, EmergencySlotKey(doctorA, "2026-09-01"), []byte("a1"), time.Minute))
	require.NoError(t, mc.Set(ctx, EmergencySlotKey(doctorA, "2026-09-02"), []byte("a2"), time.Minute))
	require.NoError(t, mc.Set(ctx, EmergencySlotKey(doctorB, "2026-09-01"), []byte("b1"), time.Minute))

	require.NoError(t, mc.Clear(ctx, EmergencySlotPattern(doctorA)))

	_, err := mc.Get(ctx, EmergencySlotKey(doctorA, "2026-09-01"))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, EmergencySlotKey(doctorA, "2026-09-02"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := mc.Get(ctx, EmergencySlotKey(doctorB, "2026-09-01"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b1"), got)
}
