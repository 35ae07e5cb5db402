// Package apod is a client for NASA's Astronomy Picture of the Day API.
//
// List fetches random entries and reduces them to the fields apodserver
// exposes; Image downloads the bytes behind an entry's image URL. Errors
// are pkg/errors values that the HTTP error boundary understands: an
// empty result is a 404 Failure, every other problem is internal.
package apod

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agentstation/apodserver/internal/transport"
	"github.com/agentstation/apodserver/pkg/constants"
	"github.com/agentstation/apodserver/pkg/errors"
	"github.com/agentstation/apodserver/pkg/logging"
)

// Upstream names used in errors and logs.
const (
	ProviderAPI    = "apod"
	ProviderImages = "apod-images"
)

// Picture is one APOD entry as returned to callers.
type Picture struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	HDURL       string `json:"hdurl"`
	Copyright   string `json:"copyright,omitempty"`
	Date        string `json:"date"`
}

// entry is the upstream record. Only the fields we use are decoded.
type entry struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	HDURL       string `json:"hdurl"`
	URL         string `json:"url"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright"`
	Date        string `json:"date"`
}

// Image is a downloaded picture.
type Image struct {
	ContentType string
	Body        []byte
}

// Config configures a Client.
type Config struct {
	BaseURL       string
	APIKey        string
	MaxImageBytes int64
	HTTPClient    *http.Client
}

// Client talks to the APOD API.
type Client struct {
	baseURL  *url.URL
	maxImage int64
	api      *transport.Client
	images   *transport.Client
}

// NewClient creates a client. Empty fields fall back to the public NASA
// endpoint, the DEMO_KEY credential and a 32 MB image limit.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultAPODURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = constants.DefaultAPIKey
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = constants.MaxImageBytes
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewConfigurationError("apod", "invalid base URL "+strconv.Quote(cfg.BaseURL), err)
	}

	opts := []transport.Option{transport.WithHTTPClient(cfg.HTTPClient)}
	return &Client{
		baseURL:  u,
		maxImage: cfg.MaxImageBytes,
		api:      transport.New(ProviderAPI, &transport.QueryAuth{Param: "api_key"}, cfg.APIKey, opts...),
		// image URLs come from upstream data, so they never get the key
		images: transport.New(ProviderImages, &transport.NoAuth{}, "", opts...),
	}, nil
}

// List fetches count random entries.
func (c *Client) List(ctx context.Context, count int) ([]Picture, error) {
	if count < 1 || count > constants.MaxAPODCount {
		return nil, errors.NewValidationError("count", count, "count must be between 1 and "+strconv.Itoa(constants.MaxAPODCount))
	}

	ctx = logging.WithUpstream(ctx, ProviderAPI)
	logging.FromContext(ctx).Debug().Int("count", count).Msg("Fetching APOD entries")

	resp, err := c.api.Get(ctx, c.listURL(count), "")
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := transport.DecodeResponse(ProviderAPI, resp, &raw); err != nil {
		return nil, decodeFailure(err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &errors.Failure{Message: "Invalid response format."}
	}

	var entries []entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &errors.Failure{
			Message: "Invalid response format.",
			Err:     errors.WrapParse("json", ProviderAPI+" response", err),
		}
	}
	if len(entries) == 0 {
		return nil, errors.NotFound("No data found.")
	}

	pictures := make([]Picture, len(entries))
	for i, e := range entries {
		pictures[i] = Picture{
			Title:       e.Title,
			Explanation: e.Explanation,
			HDURL:       e.HDURL,
			Copyright:   e.Copyright,
			Date:        e.Date,
		}
	}
	return pictures, nil
}

// decodeFailure turns an undecodable upstream body into an internal
// failure. Status and transport errors pass through unchanged.
func decodeFailure(err error) error {
	var pe *errors.ParseError
	if errors.As(err, &pe) {
		return &errors.Failure{Message: "Invalid response format.", Err: err}
	}
	return err
}

func (c *Client) listURL(count int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()
	return u.String()
}

// RandomImageURL picks one random entry and returns the URL of its image,
// preferring the high-resolution one.
func (c *Client) RandomImageURL(ctx context.Context) (string, error) {
	ctx = logging.WithUpstream(ctx, ProviderAPI)

	resp, err := c.api.Get(ctx, c.listURL(1), "")
	if err != nil {
		return "", err
	}

	var entries []entry
	if err := transport.DecodeResponse(ProviderAPI, resp, &entries); err != nil {
		return "", decodeFailure(err)
	}
	if len(entries) == 0 {
		return "", errors.NotFound("No data found.")
	}

	e := entries[0]
	switch {
	case e.HDURL != "":
		return e.HDURL, nil
	case e.URL != "" && (e.MediaType == "" || e.MediaType == "image"):
		return e.URL, nil
	default:
		return "", errors.Internalf("entry %s has no image (media type %q)", e.Date, e.MediaType)
	}
}

// Image downloads the bytes at imageURL.
func (c *Client) Image(ctx context.Context, imageURL string) (*Image, error) {
	ctx = logging.WithUpstream(ctx, ProviderImages)
	logging.FromContext(ctx).Debug().Str("url", imageURL).Msg("Fetching APOD image")

	resp, err := c.images.Get(ctx, imageURL, "image/*")
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")

	body, err := transport.ReadBody(ProviderImages, resp, c.maxImage)
	if err != nil {
		return nil, err
	}

	return &Image{ContentType: contentType, Body: body}, nil
}
