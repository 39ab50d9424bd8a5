// Package tiler talks to the external tile servers that render raster and vector
// tiles. It only fetches and decodes tilejson documents; rendering stays upstream.
package tiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tilejson request.
const DefaultTimeout = 30 * time.Second

// TransportError reports a backend that could not be reached or answered with a
// non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tile backend %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("tile backend %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a backend response that is not the expected tilejson shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding tilejson from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errNoTiles = errors.New("tilejson has no tiles")

// Config configures a backend client.
type Config struct {
	BaseURL string
	Token   string // sent as a bearer token when set
	Timeout time.Duration
	HTTP    *http.Client
}

// Client fetches tilejson documents from one backend.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTP
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		token: cfg.Token,
		http:  hc,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// GetTileJSON fetches base+path with the given query and decodes the tilejson body.
func (c *Client) GetTileJSON(ctx context.Context, path string, query url.Values) (*TileJSON, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}

	tj, err := DecodeTileJSON(body)
	if err != nil {
		return nil, &DecodeError{URL: u, Err: err}
	}
	return tj, nil
}

// DecodeTileJSON parses a tilejson document. The document must list at least one
// tile URL.
func DecodeTileJSON(data []byte) (*TileJSON, error) {
	var tj TileJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &tj.Raw); err != nil {
		return nil, err
	}
	if len(tj.Tiles) == 0 || tj.Tiles[0] == "" {
		return nil, errNoTiles
	}
	return &tj, nil
}
