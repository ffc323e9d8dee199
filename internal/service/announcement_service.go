package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/models"
	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/media"
	"github.com/noah-isme/school-website-api/pkg/validation"
)

const announcementNotFound = "Announcement not found"

type announcementRepository interface {
	ListVisible(ctx context.Context, q models.AnnouncementQuery) ([]models.Announcement, error)
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, item *models.Announcement) error
	Update(ctx context.Context, id string, patch models.AnnouncementPatch) (*models.Announcement, error)
	Deactivate(ctx context.Context, id string) (*models.Announcement, error)
}

// CreateAnnouncementRequest holds payload for publishing an announcement.
type CreateAnnouncementRequest struct {
	Title       string  `json:"title" validate:"notblank"`
	Content     string  `json:"content" validate:"notblank"`
	Category    string  `json:"category" validate:"omitempty,oneof=event academic sports general holiday"`
	Image       string  `json:"image" validate:"omitempty,url"`
	ExpiresAt   *string `json:"expiresAt" validate:"omitempty,instant"`
	Featured    bool    `json:"featured"`
	PublishedBy string  `json:"publishedBy" validate:"notblank"`
	Active      *bool   `json:"active"`
}

// UpdateAnnouncementRequest holds a partial update. An explicit null expiresAt removes the expiry.
type UpdateAnnouncementRequest struct {
	Title       *string      `json:"title" validate:"omitempty,notblank"`
	Content     *string      `json:"content" validate:"omitempty,notblank"`
	Category    *string      `json:"category" validate:"omitempty,oneof=event academic sports general holiday"`
	Image       *string      `json:"image" validate:"omitempty,url"`
	ExpiresAt   OptionalTime `json:"expiresAt"`
	Featured    *bool        `json:"featured"`
	PublishedBy *string      `json:"publishedBy" validate:"omitempty,notblank"`
	Active      *bool        `json:"active"`
}

// AnnouncementServiceConfig carries the tunables of the announcement service.
type AnnouncementServiceConfig struct {
	RecentWindowDays int
	MediaRoot        string
	MediaTimeout     time.Duration
}

// AnnouncementService handles announcement use-cases.
type AnnouncementService struct {
	repo      announcementRepository
	images    imageReplacer
	validator *validation.Validator
	logger    *zap.Logger
	cfg       AnnouncementServiceConfig
	now       clock
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(repo announcementRepository, host media.Host, validate *validation.Validator, logger *zap.Logger, cfg AnnouncementServiceConfig) *AnnouncementService {
	if validate == nil {
		validate = NewRequestValidator()
	} else {
		registerRequestRules(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecentWindowDays <= 0 {
		cfg.RecentWindowDays = 30
	}
	return &AnnouncementService{
		repo:      repo,
		images:    newImageReplacer(host, cfg.MediaTimeout, logger),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       systemClock,
	}
}

// ListVisible returns active, unexpired announcements newest first.
func (s *AnnouncementService) ListVisible(ctx context.Context) ([]models.AnnouncementView, error) {
	return s.list(ctx, models.AnnouncementQuery{})
}

// ListRecent narrows ListVisible to the trailing days window; days <= 0 uses the configured
// window and limit <= 0 means no limit.
func (s *AnnouncementService) ListRecent(ctx context.Context, days, limit int) ([]models.AnnouncementView, error) {
	if days <= 0 {
		days = s.cfg.RecentWindowDays
	}
	since := s.now().AddDate(0, 0, -days)
	q := models.AnnouncementQuery{CreatedSince: &since}
	if limit > 0 {
		q.Limit = int64(limit)
	}
	return s.list(ctx, q)
}

// ListFeatured returns visible announcements flagged as featured.
func (s *AnnouncementService) ListFeatured(ctx context.Context) ([]models.AnnouncementView, error) {
	return s.list(ctx, models.AnnouncementQuery{FeaturedOnly: true})
}

// ListByCategory returns visible announcements in category. Unknown categories are rejected.
func (s *AnnouncementService) ListByCategory(ctx context.Context, category string) ([]models.AnnouncementView, error) {
	c := models.AnnouncementCategory(strings.ToLower(strings.TrimSpace(category)))
	if !c.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "category must be one of [event academic sports general holiday]")
	}
	return s.list(ctx, models.AnnouncementQuery{Category: &c})
}

// Get returns the announcement with id, including inactive or expired ones.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.AnnouncementView, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, announcementNotFound, "failed to load announcement")
	}
	view := item.View(s.now())
	return &view, nil
}

// Create validates and stores a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, req CreateAnnouncementRequest) (*models.AnnouncementView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(s.validator, err)
	}

	item := &models.Announcement{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Category:    models.AnnouncementCategory(req.Category),
		Image:       req.Image,
		Featured:    req.Featured,
		PublishedBy: strings.TrimSpace(req.PublishedBy),
		Active:      true,
	}
	if item.Category == "" {
		item.Category = models.AnnouncementCategoryGeneral
	}
	if req.ExpiresAt != nil {
		expiresAt, err := parseDateField("expiresAt", *req.ExpiresAt, models.ParseInstant)
		if err != nil {
			return nil, err
		}
		item.ExpiresAt = &expiresAt
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, "failed to create announcement")
	}
	s.logger.Info("announcement created", zap.String("announcement_id", item.ID.Hex()), zap.String("category", string(item.Category)))
	view := item.View(s.now())
	return &view, nil
}

// Update applies a partial change to the announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req UpdateAnnouncementRequest) (*models.AnnouncementView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(s.validator, err)
	}

	patch := models.AnnouncementPatch{
		Title:       trimmed(req.Title),
		Content:     req.Content,
		Image:       req.Image,
		Featured:    req.Featured,
		PublishedBy: trimmed(req.PublishedBy),
		Active:      req.Active,
	}
	if req.Category != nil {
		c := models.AnnouncementCategory(*req.Category)
		patch.Category = &c
	}
	if req.ExpiresAt.Set {
		if req.ExpiresAt.Value == nil {
			patch.ClearExpiresAt = true
		} else {
			expiresAt, err := parseDateField("expiresAt", *req.ExpiresAt.Value, models.ParseInstant)
			if err != nil {
				return nil, err
			}
			patch.ExpiresAt = &expiresAt
		}
	}

	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err, announcementNotFound, "failed to update announcement")
	}
	view := item.View(s.now())
	return &view, nil
}

// SoftDelete marks the announcement inactive. Repeating it is harmless.
func (s *AnnouncementService) SoftDelete(ctx context.Context, id string) (*models.AnnouncementView, error) {
	item, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, storeFailure(err, announcementNotFound, "failed to delete announcement")
	}
	view := item.View(s.now())
	return &view, nil
}

// ReplaceImage uploads data as the announcement's image, dropping the previous one.
func (s *AnnouncementService) ReplaceImage(ctx context.Context, id string, data []byte) (*models.AnnouncementView, error) {
	if len(data) == 0 {
		return nil, appErrors.ErrUploadRejected
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, announcementNotFound, "failed to load announcement")
	}

	var updated *models.Announcement
	err = s.images.replace(ctx, item.MediaID, data, media.AnnouncementImageSpec(s.cfg.MediaRoot), func(asset media.Asset) error {
		mediaID := asset.ID
		var saveErr error
		updated, saveErr = s.repo.Update(ctx, id, models.AnnouncementPatch{Image: &asset.URL, MediaID: &mediaID})
		if saveErr != nil {
			return storeFailure(saveErr, announcementNotFound, "failed to save announcement image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := updated.View(s.now())
	return &view, nil
}

func (s *AnnouncementService) list(ctx context.Context, q models.AnnouncementQuery) ([]models.AnnouncementView, error) {
	now := s.now()
	items, err := s.repo.ListVisible(ctx, q)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, "failed to list announcements")
	}
	return models.AnnouncementViews(items, now), nil
}
