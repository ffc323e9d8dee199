// Package instagram is a minimal Instagram Graph API client covering the media feed and account profile.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	mediaListFields   = "id,caption"
	mediaDetailFields = "id,media_type,media_url,permalink,thumbnail_url,timestamp,caption"
	accountFields     = "username,name,profile_picture_url,biography,follows_count,followers_count,media_count,website"

	maxConcurrentDetails = 8
)

// ErrNotConfigured is returned before any request when credentials are missing.
var ErrNotConfigured = errors.New("instagram: access token and business account id are required")

// APIError is a non-2xx answer from the Graph API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("instagram api %d", e.Status)
	}
	return fmt.Sprintf("instagram api %d: %s (%s)", e.Status, e.Message, e.Type)
}

// Media is a feed item as the Graph API describes it.
type Media struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
	Caption      string `json:"caption"`
}

// Account is the business account profile.
type Account struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Biography         string `json:"biography"`
	FollowsCount      int    `json:"follows_count"`
	FollowersCount    int    `json:"followers_count"`
	MediaCount        int    `json:"media_count"`
	Website           string `json:"website"`
}

// Client talks to the Graph API on behalf of one business account.
type Client struct {
	BaseURL     string
	Version     string
	AccountID   string
	AccessToken string
	HTTPClient  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithTimeout bounds every outbound request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// New creates a client. baseURL defaults to https://graph.instagram.com and version to v12.0.
func New(baseURL, version, accountID, accessToken string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "https://graph.instagram.com"
	}
	if version == "" {
		version = "v12.0"
	}
	c := &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Version:     version,
		AccountID:   accountID,
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.AccessToken) != "" && strings.TrimSpace(c.AccountID) != ""
}

// RecentMedia lists up to limit media items and resolves each one's details.
// Any failed detail lookup fails the whole call.
func (c *Client) RecentMedia(ctx context.Context, limit int) ([]Media, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("fields", mediaListFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var listing struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/"+c.Version+"/"+url.PathEscape(c.AccountID)+"/media", params, &listing); err != nil {
		return nil, err
	}

	media := make([]Media, len(listing.Data))
	if len(listing.Data) == 0 {
		return media, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDetails)
	for i, item := range listing.Data {
		i, id := i, item.ID
		g.Go(func() error {
			detail := url.Values{}
			detail.Set("fields", mediaDetailFields)
			return c.get(gctx, "/"+url.PathEscape(id), detail, &media[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return media, nil
}

// Account fetches the business account profile.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	params := url.Values{}
	params.Set("fields", accountFields)

	var account Account
	if err := c.get(ctx, "/"+c.Version+"/"+url.PathEscape(c.AccountID), params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// stripURL drops the request URL from transport errors since its query carries the access token.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("access_token", c.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("instagram request %s: %w", path, stripURL(err))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = body.Error.Message
			apiErr.Type = body.Error.Type
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode instagram response %s: %w", path, err)
	}
	return nil
}
