package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/models"
	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/instagram"
)

const (
	defaultFeedLimit = 6
	maxFeedLimit     = 50

	feedCachePrefix = "instagram:feed:"
	accountCacheKey = "instagram:account"
)

type feedProvider interface {
	Configured() bool
	RecentMedia(ctx context.Context, limit int) ([]instagram.Media, error)
	Account(ctx context.Context) (*instagram.Account, error)
}

type upstreamObserver interface {
	ObserveUpstreamCall(upstream, operation string, err error, duration time.Duration)
}

// InstagramService proxies the school's Instagram feed and profile.
type InstagramService struct {
	provider feedProvider
	cache    *CacheService
	metrics  upstreamObserver
	ttl      time.Duration
	logger   *zap.Logger
}

// NewInstagramService constructs the service. cache and metrics may be nil.
func NewInstagramService(provider feedProvider, cache *CacheService, metrics upstreamObserver, ttl time.Duration, logger *zap.Logger) *InstagramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstagramService{provider: provider, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// GetFeed returns up to limit recent posts (6 when limit <= 0). Any upstream failure fails the
// whole call; partial feeds are never returned.
func (s *InstagramService) GetFeed(ctx context.Context, limit int) ([]models.InstagramPost, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	return cacheAside(ctx, s.cache, feedCachePrefix+strconv.Itoa(limit), s.ttl, func(ctx context.Context) ([]models.InstagramPost, error) {
		start := time.Now()
		media, err := s.provider.RecentMedia(ctx, limit)
		s.observe("feed", err, time.Since(start))
		if err != nil {
			s.logger.Error("instagram feed request failed", zap.Error(err))
			return nil, appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "Could not fetch Instagram posts")
		}

		posts := make([]models.InstagramPost, 0, len(media))
		for _, m := range media {
			posts = append(posts, toPost(m))
		}
		return posts, nil
	})
}

// GetAccount returns the business account profile.
func (s *InstagramService) GetAccount(ctx context.Context) (*models.InstagramAccount, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}

	return cacheAside(ctx, s.cache, accountCacheKey, s.ttl, func(ctx context.Context) (*models.InstagramAccount, error) {
		start := time.Now()
		account, err := s.provider.Account(ctx)
		s.observe("account", err, time.Since(start))
		if err != nil {
			s.logger.Error("instagram account request failed", zap.Error(err))
			return nil, appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "Could not fetch Instagram account info")
		}

		return &models.InstagramAccount{
			ID:                account.ID,
			Username:          account.Username,
			Name:              account.Name,
			ProfilePictureURL: account.ProfilePictureURL,
			Biography:         account.Biography,
			FollowsCount:      account.FollowsCount,
			FollowersCount:    account.FollowersCount,
			MediaCount:        account.MediaCount,
			Website:           account.Website,
		}, nil
	})
}

func (s *InstagramService) ensureConfigured() error {
	if s.provider == nil || !s.provider.Configured() {
		return appErrors.Clone(appErrors.ErrConfiguration, "Instagram API credentials are not configured")
	}
	return nil
}

func (s *InstagramService) observe(operation string, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.metrics.ObserveUpstreamCall("instagram", operation, err, d)
}

func toPost(m instagram.Media) models.InstagramPost {
	thumb := m.ThumbnailURL
	if thumb == "" {
		thumb = m.MediaURL
	}
	return models.InstagramPost{
		ID:           m.ID,
		MediaType:    m.MediaType,
		MediaURL:     m.MediaURL,
		ThumbnailURL: thumb,
		Permalink:    m.Permalink,
		Timestamp:    m.Timestamp,
		Caption:      m.Caption,
	}
}
