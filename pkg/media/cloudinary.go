package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/noah-isme/school-website-api/pkg/config"
)

// CloudinaryHost stores images on Cloudinary and lets it apply the size limit on ingest.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryHost builds a host from account credentials.
func NewCloudinaryHost(cfg config.CloudinaryConfig) (*CloudinaryHost, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryHost{cld: cld}, nil
}

// Upload sends data into spec.Folder. The returned ID is Cloudinary's public id.
func (h *CloudinaryHost) Upload(ctx context.Context, data []byte, spec Spec) (Asset, error) {
	if _, err := Prepare(data, spec); err != nil {
		return Asset{}, err
	}

	params := uploader.UploadParams{
		Folder:         spec.Folder,
		AllowedFormats: spec.AllowedFormats,
	}
	if spec.MaxWidth > 0 && spec.MaxHeight > 0 {
		params.Transformation = fmt.Sprintf("c_limit,w_%d,h_%d", spec.MaxWidth, spec.MaxHeight)
	}

	res, err := h.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return Asset{URL: res.SecureURL, ID: res.PublicID}, nil
}

// Delete destroys the asset with public id id.
func (h *CloudinaryHost) Delete(ctx context.Context, id string) error {
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", id, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", id, res.Error.Message)
	}
	return nil
}
