package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	var got string
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "v", got)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	c := NewMemoryCache()

	var got string
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))

	var got string
	require.NoError(t, c.Get(ctx, "k", &got))

	assert.Eventually(t, func() bool {
		return c.Get(ctx, "k", &got) != nil
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	var got string
	assert.Error(t, c.Get(ctx, "k", &got))
}

func TestMemoryCache_StructRoundTrip(t *testing.T) {
	type pin struct {
		Ref     string `json:"ref"`
		Version string `json:"version"`
	}

	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pin", pin{Ref: "a/b", Version: "v1"}, 0))

	var got pin
	require.NoError(t, c.Get(ctx, "pin", &got))
	assert.Equal(t, pin{Ref: "a/b", Version: "v1"}, got)
}
