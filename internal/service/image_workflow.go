package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/media"
)

// imageReplacer runs the delete-old, upload-new, commit sequence shared by students and announcements.
type imageReplacer struct {
	host    media.Host
	timeout time.Duration
	logger  *zap.Logger
}

func newImageReplacer(host media.Host, timeout time.Duration, logger *zap.Logger) imageReplacer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return imageReplacer{host: host, timeout: timeout, logger: logger}
}

// replace checks the format of data, deletes previousID best-effort, uploads data and hands the new asset to commit.
// When commit fails the new asset is removed again, also best-effort.
func (r imageReplacer) replace(ctx context.Context, previousID *string, data []byte, spec media.Spec, commit func(media.Asset) error) error {
	if len(data) == 0 {
		return appErrors.ErrUploadRejected
	}
	if r.host == nil {
		return appErrors.Clone(appErrors.ErrConfiguration, "Media host is not configured")
	}
	if _, err := media.Prepare(data, spec); err != nil {
		return rejectFormat(err, spec)
	}

	if previousID != nil && *previousID != "" {
		r.discard(ctx, *previousID, "previous")
	}

	uploadCtx, cancel := context.WithTimeout(ctx, r.timeout)
	asset, err := r.host.Upload(uploadCtx, data, spec)
	cancel()
	if err != nil {
		if errors.Is(err, media.ErrFormatNotAllowed) {
			return rejectFormat(err, spec)
		}
		r.logger.Error("media upload failed", zap.String("folder", spec.Folder), zap.Error(err))
		return appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "Could not upload image")
	}

	if err := commit(asset); err != nil {
		r.discard(ctx, asset.ID, "orphaned")
		return err
	}
	return nil
}

func rejectFormat(err error, spec media.Spec) error {
	return appErrors.Wrap(err, appErrors.ErrUploadRejected.Code, appErrors.ErrUploadRejected.Status,
		"Only "+strings.Join(spec.AllowedFormats, ", ")+" images are allowed")
}

func (r imageReplacer) discard(ctx context.Context, id, kind string) {
	deleteCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.host.Delete(deleteCtx, id); err != nil {
		r.logger.Warn("media delete failed", zap.String("media_id", id), zap.String("kind", kind), zap.Error(err))
	}
}
