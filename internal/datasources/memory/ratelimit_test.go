package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Increment(t *testing.T) {
	store := NewRateLimitStore(time.Minute)
	ctx := context.Background()

	count, resetIn, err := store.Increment(ctx, "default:user-1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, resetIn, time.Duration(0))

	count, _, err = store.Increment(ctx, "default:user-1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Separate keys have separate windows.
	count, _, err = store.Increment(ctx, "default:user-2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRateLimitStore_WindowReset(t *testing.T) {
	store := NewRateLimitStore(time.Minute)
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "auth:user-1", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	count, _, err := store.Increment(ctx, "auth:user-1", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window should reset the count")
}

func TestRateLimitStore_Sweep(t *testing.T) {
	store := NewRateLimitStore(time.Minute)
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "default:user-1", time.Millisecond)
	require.NoError(t, err)
	_, _, err = store.Increment(ctx, "default:user-2", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.sweep(time.Now())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.windows, "default:user-1")
	assert.Contains(t, store.windows, "default:user-2")
}
