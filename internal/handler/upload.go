package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
)

// multipartOverhead leaves room for boundaries and other form fields around the file.
const multipartOverhead = 1 << 20

// readUpload returns the bytes of the multipart file in field, enforcing maxSize.
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)
	}
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, appErrors.Clone(appErrors.ErrUploadRejected, "File is too large")
		}
		return nil, appErrors.ErrUploadRejected
	}
	if maxSize > 0 && header.Size > maxSize {
		return nil, appErrors.Clone(appErrors.ErrUploadRejected, "File is too large")
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadRejected.Code, appErrors.ErrUploadRejected.Status, "Could not read uploaded file")
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadRejected.Code, appErrors.ErrUploadRejected.Status, "Could not read uploaded file")
	}
	if len(data) == 0 {
		return nil, appErrors.ErrUploadRejected
	}
	return data, nil
}

func invalidBody(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request body")
}
