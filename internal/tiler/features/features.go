// Package features is the client for the vector feature tile server.
package features

import (
	"context"
	"errors"
	"net/url"

	"github.com/joeblew999/design-studio/internal/tiler"
)

var errNoVectorLayers = errors.New("tilejson has no vector_layers")

// Client requests tilejson documents for feature collections.
type Client struct {
	*tiler.Client
}

// New creates a vector tiler client.
func New(cfg tiler.Config) *Client {
	return &Client{Client: tiler.NewClient(cfg)}
}

// Path returns the tilejson path for a collection such as "public.countries".
func Path(collection string) string {
	return "/collections/" + url.PathEscape(collection) + "/tilejson.json"
}

// TileJSON fetches the tilejson for a collection. The response must name at least
// one vector layer.
func (c *Client) TileJSON(ctx context.Context, collection string) (*tiler.TileJSON, error) {
	path := Path(collection)
	tj, err := c.GetTileJSON(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if len(tj.VectorLayers) == 0 || tj.VectorLayers[0].ID == "" {
		return nil, &tiler.DecodeError{URL: c.BaseURL() + path, Err: errNoVectorLayers}
	}
	return tj, nil
}

// LayerName returns the id of the first vector layer.
func LayerName(tj *tiler.TileJSON) string {
	if len(tj.VectorLayers) == 0 {
		return ""
	}
	return tj.VectorLayers[0].ID
}
