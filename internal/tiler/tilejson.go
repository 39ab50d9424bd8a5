package tiler

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// TileJSON is the tile descriptor returned by both backends.
type TileJSON struct {
	TileJSON     string         `json:"tilejson,omitempty"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Version      string         `json:"version,omitempty"`
	Attribution  string         `json:"attribution,omitempty"`
	Scheme       string         `json:"scheme,omitempty"`
	Tiles        []string       `json:"tiles"`
	MinZoom      *int           `json:"minzoom,omitempty"`
	MaxZoom      *int           `json:"maxzoom,omitempty"`
	Bounds       []float64      `json:"bounds,omitempty"`
	Center       []float64      `json:"center,omitempty"`
	VectorLayers []VectorLayer  `json:"vector_layers,omitempty"`
	Raw          map[string]any `json:"-"`
}

// VectorLayer is one named sub-layer of a vector tileset.
type VectorLayer struct {
	ID          string            `json:"id"`
	Description string            `json:"description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	MinZoom     *int              `json:"minzoom,omitempty"`
	MaxZoom     *int              `json:"maxzoom,omitempty"`
}

// URL returns the first tile URL template.
func (t *TileJSON) URL() string {
	if len(t.Tiles) == 0 {
		return ""
	}
	return t.Tiles[0]
}

// Bound returns the tileset bounds, or the whole world when none were given.
func (t *TileJSON) Bound() orb.Bound {
	if len(t.Bounds) != 4 {
		return orb.Bound{Min: orb.Point{-180, -85.0511}, Max: orb.Point{180, 85.0511}}
	}
	return orb.Bound{
		Min: orb.Point{t.Bounds[0], t.Bounds[1]},
		Max: orb.Point{t.Bounds[2], t.Bounds[3]},
	}
}

// CenterPoint returns the declared centre, falling back to the centre of the bounds.
func (t *TileJSON) CenterPoint() orb.Point {
	if len(t.Center) >= 2 {
		return orb.Point{t.Center[0], t.Center[1]}
	}
	return t.Bound().Center()
}

// CenterZoom returns the declared centre zoom, or def when none was given.
func (t *TileJSON) CenterZoom(def int) int {
	if len(t.Center) >= 3 {
		return int(t.Center[2])
	}
	if t.MinZoom != nil {
		return *t.MinZoom
	}
	return def
}

// TileURL expands the first tile template for a concrete tile.
func (t *TileJSON) TileURL(mt maptile.Tile) string {
	return ExpandTemplate(t.URL(), mt)
}

// ExpandTemplate substitutes {z}, {x} and {y} in a tile URL template.
func ExpandTemplate(tmpl string, mt maptile.Tile) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(int(mt.Z)),
		"{x}", strconv.Itoa(int(mt.X)),
		"{y}", strconv.Itoa(int(mt.Y)),
	).Replace(tmpl)
}

// Summary returns the zoom range, bounds and centre for inclusion in layer info.
// Fields the backend did not report are left out.
func (t *TileJSON) Summary() map[string]any {
	s := map[string]any{}
	if t.MinZoom != nil {
		s["minzoom"] = *t.MinZoom
	}
	if t.MaxZoom != nil {
		s["maxzoom"] = *t.MaxZoom
	}
	if len(t.Bounds) == 4 {
		s["bounds"] = t.Bounds
	}
	if len(t.Center) > 0 {
		s["center"] = t.Center
	}
	return s
}
