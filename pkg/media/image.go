package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var formatsByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
}

// DetectFormat sniffs the image format from content, ignoring any client supplied name.
func DetectFormat(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if format, ok := formatsByMIME[m.String()]; ok {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFormatNotAllowed, mtype.String())
}

// Prepare checks data against spec and returns its format.
func Prepare(data []byte, spec Spec) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrFormatNotAllowed)
	}
	format, err := DetectFormat(data)
	if err != nil {
		return "", err
	}
	if !spec.Allows(format) {
		return "", fmt.Errorf("%w: %s", ErrFormatNotAllowed, format)
	}
	return format, nil
}

// LimitSize scales the image down to fit inside maxWidth x maxHeight keeping its aspect ratio.
// Images already inside the bounds are returned untouched.
func LimitSize(data []byte, format string, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return data, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatNotAllowed, err)
	}
	if cfg.Width <= maxWidth && cfg.Height <= maxHeight {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatNotAllowed, err)
	}
	resized := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	imgFormat, err := imaging.FormatFromExtension(format)
	if err != nil {
		imgFormat = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imgFormat); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// contentType returns the MIME type stored alongside an object of format.
func contentType(format string) string {
	for m, f := range formatsByMIME {
		if f == normaliseFormat(format) {
			return m
		}
	}
	return "application/octet-stream"
}
