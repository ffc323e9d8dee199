package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/instagram"
)

type fakeProvider struct {
	configured bool
	media      []instagram.Media
	account    *instagram.Account
	err        error
	calls      int
	lastLimit  int
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) RecentMedia(ctx context.Context, limit int) ([]instagram.Media, error) {
	f.calls++
	f.lastLimit = limit
	return f.media, f.err
}

func (f *fakeProvider) Account(ctx context.Context) (*instagram.Account, error) {
	f.calls++
	return f.account, f.err
}

type memoryCache struct {
	entries map[string][]byte
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func TestFeedRequiresCredentialsBeforeAnyCall(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewInstagramService(provider, nil, nil, time.Minute, nil)

	_, err := svc.GetFeed(context.Background(), 6)
	require.True(t, errors.Is(err, appErrors.ErrConfiguration))
	assert.Equal(t, "Instagram API credentials are not configured", appErrors.FromError(err).Message)

	_, err = svc.GetAccount(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrConfiguration))
	assert.Zero(t, provider.calls)
}

func TestFeedFormatsPostsWithThumbnailFallback(t *testing.T) {
	provider := &fakeProvider{configured: true, media: []instagram.Media{
		{ID: "1", MediaType: "IMAGE", MediaURL: "https://cdn/1.jpg", Permalink: "https://ig/p/1", Timestamp: "2026-10-01T10:00:00+0000"},
		{ID: "2", MediaType: "VIDEO", MediaURL: "https://cdn/2.mp4", ThumbnailURL: "https://cdn/2.jpg", Caption: "Sports day"},
	}}
	svc := NewInstagramService(provider, nil, nil, time.Minute, nil)

	posts, err := svc.GetFeed(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, 6, provider.lastLimit)
	assert.Equal(t, "https://cdn/1.jpg", posts[0].ThumbnailURL)
	assert.Equal(t, "https://cdn/2.jpg", posts[1].ThumbnailURL)
	assert.Equal(t, "Sports day", posts[1].Caption)
}

func TestFeedEmptyIsSuccess(t *testing.T) {
	svc := NewInstagramService(&fakeProvider{configured: true, media: []instagram.Media{}}, nil, nil, time.Minute, nil)

	posts, err := svc.GetFeed(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestFeedUpstreamFailureIsGeneric(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewInstagramService(&fakeProvider{configured: true, err: &instagram.APIError{Status: 400, Message: "Invalid OAuth access token"}}, nil, metrics, time.Minute, nil)

	_, err := svc.GetFeed(context.Background(), 6)
	require.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
	assert.Equal(t, "Could not fetch Instagram posts", appErrors.FromError(err).Message)

	_, err = svc.GetAccount(context.Background())
	require.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
	assert.Equal(t, "Could not fetch Instagram account info", appErrors.FromError(err).Message)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.UpstreamCallCount)
	assert.Equal(t, uint64(2), snapshot.UpstreamFailureCount)
}

func TestFeedServedFromCache(t *testing.T) {
	provider := &fakeProvider{configured: true, media: []instagram.Media{{ID: "1", MediaURL: "https://cdn/1.jpg"}}}
	cache := NewCacheService(&memoryCache{entries: map[string][]byte{}}, nil, time.Minute, nil, true)
	svc := NewInstagramService(provider, cache, nil, time.Minute, nil)

	first, err := svc.GetFeed(context.Background(), 6)
	require.NoError(t, err)
	second, err := svc.GetFeed(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}

func TestAccountPassesProfileThrough(t *testing.T) {
	provider := &fakeProvider{configured: true, account: &instagram.Account{ID: "42", Username: "greenfield", FollowersCount: 1200, MediaCount: 85}}
	svc := NewInstagramService(provider, nil, nil, time.Minute, nil)

	account, err := svc.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "greenfield", account.Username)
	assert.Equal(t, 1200, account.FollowersCount)
	assert.Equal(t, 85, account.MediaCount)
}
