package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func TestCacheAsideLoadsOnceAndNamespacesKeys(t *testing.T) {
	store := &memoryCache{entries: map[string][]byte{}}
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, nil, true)

	loads := 0
	load := func(context.Context) ([]string, error) {
		loads++
		return []string{"a", "b"}, nil
	}

	first, err := cacheAside(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)
	second, err := cacheAside(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
	assert.Contains(t, store.entries, cacheNamespace+"k")

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
}

func TestCacheAsideDoesNotCacheErrors(t *testing.T) {
	store := &memoryCache{entries: map[string][]byte{}}
	cache := NewCacheService(store, nil, time.Minute, nil, true)

	_, err := cacheAside(context.Background(), cache, "k", 0, func(context.Context) (int, error) {
		return 0, errStoreDown
	})
	require.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, store.entries)
}

func TestCacheAsideFallsThroughWhenCacheUnusable(t *testing.T) {
	for name, cache := range map[string]*CacheService{
		"nil":      nil,
		"disabled": NewCacheService(&memoryCache{entries: map[string][]byte{}}, nil, 0, nil, false),
		"broken":   NewCacheService(brokenCache{}, nil, 0, nil, true),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := cacheAside(context.Background(), cache, "k", 0, func(context.Context) (string, error) {
				return "fresh", nil
			})
			require.NoError(t, err)
			assert.Equal(t, "fresh", got)
		})
	}
}
