// Package media stores uploaded images on an external host and removes them again.
package media

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrFormatNotAllowed is returned when an upload is not one of the spec's allowed formats.
var ErrFormatNotAllowed = errors.New("media: file format not allowed")

// Spec describes where an upload goes and what it may contain.
type Spec struct {
	Folder         string
	AllowedFormats []string
	MaxWidth       int
	MaxHeight      int
}

// Asset identifies a stored image.
type Asset struct {
	URL string
	ID  string
}

// Host uploads and deletes images.
type Host interface {
	Upload(ctx context.Context, data []byte, spec Spec) (Asset, error)
	Delete(ctx context.Context, id string) error
}

// StudentProfileSpec is the placement used for student profile pictures.
func StudentProfileSpec(root string) Spec {
	return Spec{
		Folder:         joinFolder(root, "students"),
		AllowedFormats: []string{"jpg", "jpeg", "png", "gif"},
		MaxWidth:       500,
		MaxHeight:      500,
	}
}

// AnnouncementImageSpec is the placement used for announcement images.
func AnnouncementImageSpec(root string) Spec {
	return Spec{
		Folder:         joinFolder(root, "announcements"),
		AllowedFormats: []string{"jpg", "jpeg", "png"},
		MaxWidth:       1200,
		MaxHeight:      800,
	}
}

// Allows reports whether format is accepted. jpg and jpeg are interchangeable.
func (s Spec) Allows(format string) bool {
	format = normaliseFormat(format)
	for _, allowed := range s.AllowedFormats {
		if normaliseFormat(allowed) == format {
			return true
		}
	}
	return false
}

func joinFolder(root, leaf string) string {
	root = strings.Trim(root, "/")
	if root == "" {
		return leaf
	}
	return root + "/" + leaf
}

func normaliseFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// CallObserver receives timings for calls made to the host.
type CallObserver interface {
	ObserveUpstreamCall(upstream, operation string, err error, duration time.Duration)
}

type observedHost struct {
	next     Host
	name     string
	observer CallObserver
}

// Observed wraps host so every call is reported to observer under name.
func Observed(host Host, name string, observer CallObserver) Host {
	if observer == nil {
		return host
	}
	return &observedHost{next: host, name: name, observer: observer}
}

func (h *observedHost) Upload(ctx context.Context, data []byte, spec Spec) (Asset, error) {
	start := time.Now()
	asset, err := h.next.Upload(ctx, data, spec)
	h.observer.ObserveUpstreamCall(h.name, "upload", err, time.Since(start))
	return asset, err
}

func (h *observedHost) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := h.next.Delete(ctx, id)
	h.observer.ObserveUpstreamCall(h.name, "delete", err, time.Since(start))
	return err
}
