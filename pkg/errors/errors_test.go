package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	typed := Clone(ErrNotFound, "student not found")
	wrapped := fmt.Errorf("lookup: %w", typed)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "student not found", got.Message)
}

func TestFromErrorClassifiesUnknownAsInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, ErrInternal.Message, got.Message)
	assert.Nil(t, FromError(nil))
}

func TestClonedSentinelMatchesWithIs(t *testing.T) {
	err := WrapAs(ErrUpstreamUnavailable, errors.New("timeout"), "Could not fetch Instagram posts")
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.False(t, errors.Is(err, ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "timeout")
}

func TestClientCaused(t *testing.T) {
	assert.True(t, ErrValidation.ClientCaused())
	assert.True(t, ErrNotFound.ClientCaused())
	assert.True(t, ErrUploadRejected.ClientCaused())
	assert.False(t, ErrConfiguration.ClientCaused())
	assert.False(t, ErrStoreUnavailable.ClientCaused())
}
