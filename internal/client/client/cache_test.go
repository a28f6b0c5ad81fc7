package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/client/repositories/responsecache"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_BoundAndExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := localstore.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	now := time.UnixMilli(1700000000000)
	cache := NewResponseCache(store.Cache, responsecache.DefaultPolicy, func() time.Time { return now }, logging.Nop())

	for i := 0; i < 75; i++ {
		now = now.Add(time.Second)
		require.NoError(t, cache.Store(ctx, fmt.Sprintf("https://api/stories?location=1&page=%d", i), []byte(`{"listStory":[]}`)))
	}

	entries, err := store.Cache.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 50)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("https://api/stories?location=1&page=%d", 74-i), e.URL)
	}

	_, ok, err := cache.Lookup(ctx, "https://api/stories?location=1&page=24")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.Lookup(ctx, "https://api/stories?location=1&page=25")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(7*24*time.Hour + time.Second)

	_, ok, err = cache.Lookup(ctx, "https://api/stories?location=1&page=74")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are not served")

	removed, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, removed)

	entries, err = store.Cache.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
