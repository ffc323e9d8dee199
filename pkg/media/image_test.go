package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	cases := map[string][]byte{
		"png": pngBytes(t, 4, 4),
		"jpg": jpegBytes(t, 4, 4),
		"gif": gifBytes(t, 4, 4),
	}
	for want, data := range cases {
		got, err := DetectFormat(data)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DetectFormat([]byte("%PDF-1.4 not an image"))
	assert.True(t, errors.Is(err, ErrFormatNotAllowed))
}

func TestSpecAllows(t *testing.T) {
	students := StudentProfileSpec("school-website")
	announcements := AnnouncementImageSpec("school-website")

	assert.Equal(t, "school-website/students", students.Folder)
	assert.Equal(t, "school-website/announcements", announcements.Folder)
	assert.True(t, students.Allows("gif"))
	assert.True(t, students.Allows("JPEG"))
	assert.False(t, announcements.Allows("gif"))
	assert.True(t, announcements.Allows("jpg"))
	assert.Equal(t, "students", StudentProfileSpec("").Folder)
}

func TestPrepareRejectsDisallowedFormats(t *testing.T) {
	_, err := Prepare(gifBytes(t, 4, 4), AnnouncementImageSpec("root"))
	assert.True(t, errors.Is(err, ErrFormatNotAllowed))

	_, err = Prepare(nil, StudentProfileSpec("root"))
	assert.True(t, errors.Is(err, ErrFormatNotAllowed))

	format, err := Prepare(pngBytes(t, 4, 4), StudentProfileSpec("root"))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestLimitSizeFitsWithinBounds(t *testing.T) {
	out, err := LimitSize(pngBytes(t, 1000, 400), "png", 500, 500)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestLimitSizeNeverUpscales(t *testing.T) {
	in := jpegBytes(t, 120, 80)
	out, err := LimitSize(in, "jpg", 1200, 800)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
