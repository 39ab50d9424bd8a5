// Package studioclient is a small Go client for the design studio tile API.
package studioclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TileInfo is the response of the raster and vector tile endpoints.
type TileInfo struct {
	URL       string         `json:"url"`
	LayerName string         `json:"layer_name,omitempty"`
	Info      map[string]any `json:"info"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("studio api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("studio api: status %d: %s", e.StatusCode, e.Detail)
}

// Client calls a design studio API.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for baseURL, e.g. "http://127.0.0.1:8000".
func New(baseURL string) *Client {
	return NewWithHTTP(baseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewWithHTTP creates a client using hc for requests.
func NewWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// ListLayers returns the raw layer records of GET /layers. Records are kept
// loosely typed because the listing may come straight from a database table.
func (c *Client) ListLayers(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/layers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RasterTiles calls GET /raster_tiles for a layer with an optional style override.
func (c *Client) RasterTiles(ctx context.Context, id int, styles map[string]any) (*TileInfo, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))
	if styles != nil {
		b, err := json.Marshal(styles)
		if err != nil {
			return nil, err
		}
		q.Set("styles", string(b))
	}
	var out TileInfo
	if err := c.get(ctx, "/raster_tiles?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VectorTiles calls GET /vector_tiles for a layer.
func (c *Client) VectorTiles(ctx context.Context, id int) (*TileInfo, error) {
	var out TileInfo
	if err := c.get(ctx, "/vector_tiles?id="+strconv.Itoa(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /health and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var problem struct {
			Detail string `json:"detail"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &problem) != nil || problem.Detail == "" {
			problem.Detail = strings.TrimSpace(string(data))
		}
		return &StatusError{StatusCode: resp.StatusCode, Detail: problem.Detail}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
