// Package cog is the client for the raster (cloud-optimised GeoTIFF) tile server.
package cog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/go-playground/colors.v1"

	"github.com/joeblew999/design-studio/internal/tiler"
)

// DefaultBand is the band index requested for every raster layer.
const DefaultBand = "1"

// ErrInvalidColormap is returned for a style that cannot be serialised as JSON.
var ErrInvalidColormap = errors.New("invalid colormap")

// Request describes one raster tilejson request.
type Request struct {
	Source string         // raster path or URL
	Band   string         // band index, DefaultBand when empty
	Style  map[string]any // colour map, keyed by pixel value
}

// Client requests tilejson documents from the raster tiler.
type Client struct {
	*tiler.Client
}

// New creates a raster tiler client.
func New(cfg tiler.Config) *Client {
	return &Client{Client: tiler.NewClient(cfg)}
}

// Query builds the tilejson query parameters for a request.
func Query(req Request) (url.Values, error) {
	band := req.Band
	if band == "" {
		band = DefaultBand
	}
	cmap, err := Colormap(req.Style)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("url", req.Source)
	q.Set("bidx", band)
	q.Set("colormap", cmap)
	return q, nil
}

// TileJSON fetches the tilejson for a raster source.
func (c *Client) TileJSON(ctx context.Context, req Request) (*tiler.TileJSON, error) {
	q, err := Query(req)
	if err != nil {
		return nil, err
	}
	return c.GetTileJSON(ctx, "/tilejson.json", q)
}

// Colormap serialises a style as the raster tiler's colormap parameter.
// Colour strings it recognises become [r, g, b, a] arrays; any other value,
// including strings it cannot read, is passed through for the tiler to judge.
// A nil or empty style serialises as "{}".
func Colormap(style map[string]any) (string, error) {
	cmap := make(map[string]any, len(style))
	for k, v := range style {
		if s, ok := v.(string); ok {
			if rgba, ok := parseColor(s); ok {
				cmap[k] = rgba
				continue
			}
		}
		cmap[k] = v
	}
	b, err := json.Marshal(cmap)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidColormap, err)
	}
	return string(b), nil
}

func parseColor(s string) ([4]int, bool) {
	s = strings.TrimSpace(s)
	// #RRGGBBAA is not read by go-playground/colors.
	if len(s) == 9 && s[0] == '#' {
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return [4]int{}, false
		}
		return [4]int{int(n >> 24 & 0xff), int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, true
	}
	c, err := colors.Parse(s)
	if err != nil {
		return [4]int{}, false
	}
	rgba := c.ToRGBA()
	return [4]int{int(rgba.R), int(rgba.G), int(rgba.B), int(math.Round(rgba.A * 255))}, true
}
