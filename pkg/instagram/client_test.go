package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphServer(t *testing.T, failID string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v12.0/acct/media", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "id,caption", r.URL.Query().Get("fields"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "m1"}, {"id": "m2"}},
		})
	})
	mux.HandleFunc("/v12.0/acct", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.True(t, strings.Contains(r.URL.Query().Get("fields"), "followers_count"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "acct", "username": "greenfield", "followers_count": 1200, "media_count": 85,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		id := strings.TrimPrefix(r.URL.Path, "/")
		if id == failID {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": id, "media_type": "IMAGE", "media_url": "https://cdn/" + id + ".jpg",
			"permalink": "https://instagram.com/p/" + id, "timestamp": "2026-10-01T10:00:00+0000",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestRecentMediaResolvesDetailsInOrder(t *testing.T) {
	srv, _ := graphServer(t, "")
	c := New(srv.URL, "", "acct", "token")

	media, err := c.RecentMedia(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, "m1", media[0].ID)
	assert.Equal(t, "m2", media[1].ID)
	assert.Equal(t, "IMAGE", media[0].MediaType)
	assert.Equal(t, "https://cdn/m2.jpg", media[1].MediaURL)
}

func TestRecentMediaFailsWhenAnyDetailFails(t *testing.T) {
	srv, _ := graphServer(t, "m2")
	c := New(srv.URL, "v12.0", "acct", "token")

	media, err := c.RecentMedia(context.Background(), 2)
	assert.Nil(t, media)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "OAuthException", apiErr.Type)
}

func TestRecentMediaEmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	media, err := New(srv.URL, "", "acct", "token").RecentMedia(context.Background(), 6)
	require.NoError(t, err)
	assert.NotNil(t, media)
	assert.Empty(t, media)
}

func TestAccount(t *testing.T) {
	srv, _ := graphServer(t, "")
	account, err := New(srv.URL, "", "acct", "token").Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "greenfield", account.Username)
	assert.Equal(t, 1200, account.FollowersCount)
}

func TestUnconfiguredClientMakesNoRequest(t *testing.T) {
	srv, calls := graphServer(t, "")

	_, err := New(srv.URL, "", "", "token").RecentMedia(context.Background(), 6)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = New(srv.URL, "", "acct", " ").Account(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestTimeoutSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "acct", "token", WithTimeout(50*time.Millisecond)).Account(context.Background())
	require.Error(t, err)
}

func TestTransportErrorOmitsAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(addr, "v12.0", "acct", "SECRET-TOKEN").RecentMedia(context.Background(), 3)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN")
	assert.NotContains(t, err.Error(), "access_token")
	assert.Contains(t, err.Error(), "/v12.0/acct/media")

	_, err = New(addr, "v12.0", "acct", "SECRET-TOKEN").Account(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN")
}

func TestTimeoutErrorOmitsAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, "v12.0", "acct", "SECRET-TOKEN").Account(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.NotContains(t, err.Error(), "SECRET-TOKEN")
}
