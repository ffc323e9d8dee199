package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/noah-isme/school-website-api/pkg/config"
)

// S3Host stores images in an S3 compatible bucket, resizing them before upload.
type S3Host struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Host loads AWS credentials from the environment and builds a host for cfg.Bucket.
func NewS3Host(ctx context.Context, cfg config.S3Config) (*S3Host, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3HostWithClient(client, cfg), nil
}

// NewS3HostWithClient wraps an existing client.
func NewS3HostWithClient(client *s3.Client, cfg config.S3Config) *S3Host {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Host{client: client, bucket: cfg.Bucket, publicBaseURL: base}
}

// Upload writes data under spec.Folder. The returned ID is the object key.
func (h *S3Host) Upload(ctx context.Context, data []byte, spec Spec) (Asset, error) {
	format, err := Prepare(data, spec)
	if err != nil {
		return Asset{}, err
	}
	body, err := LimitSize(data, format, spec.MaxWidth, spec.MaxHeight)
	if err != nil {
		return Asset{}, err
	}

	key := path.Join(spec.Folder, uuid.NewString()+"."+format)
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType(format)),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return Asset{URL: h.publicBaseURL + "/" + key, ID: key}, nil
}

// Delete removes the object with key id.
func (h *S3Host) Delete(ctx context.Context, id string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", id, err)
	}
	return nil
}
