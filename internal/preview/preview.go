// Package preview renders a Leaflet page showing resolved studio layers.
package preview

import (
	"embed"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"

	"github.com/joeblew999/design-studio/internal/service"
	"github.com/joeblew999/design-studio/internal/templates"
)

//go:embed web/*.html
var webFS embed.FS

// Defaults for a new map.
var (
	DefaultCenter = orb.Point{55.0, 25.0}
	DefaultZoom   = 3
)

// OverlayKind is the Leaflet layer type used for an overlay.
type OverlayKind string

const (
	OverlayTile       OverlayKind = "tile"
	OverlayVectorGrid OverlayKind = "vectorgrid"
)

// Overlay is one layer drawn on the map.
type Overlay struct {
	Name    string         `json:"name"`
	Kind    OverlayKind    `json:"kind"`
	URL     string         `json:"url"`
	Opacity float64        `json:"opacity,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Map is a map configuration. The zero value is not useful; use New.
type Map struct {
	Title    string
	Center   orb.Point // lon, lat
	Zoom     int
	Overlays []Overlay
}

// New returns a map at the default centre and zoom.
func New(title string) *Map {
	return &Map{Title: title, Center: DefaultCenter, Zoom: DefaultZoom}
}

// AddRaster adds a raster tile overlay.
func (m *Map) AddRaster(name string, info service.LayerTileInfo, opacity float64) {
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	m.Overlays = append(m.Overlays, Overlay{
		Name:    name,
		Kind:    OverlayTile,
		URL:     info.URL,
		Opacity: opacity,
	})
}

// AddVector adds a vector tile overlay. Styles from the layer info are keyed by
// the vector sub-layer name; a layer without styles uses the renderer defaults.
func (m *Map) AddVector(name string, info service.LayerTileInfo) {
	o := Overlay{
		Name: name,
		Kind: OverlayVectorGrid,
		URL:  info.URL,
	}
	if styles := stylesOf(info); len(styles) > 0 && info.LayerName != "" {
		o.Options = map[string]any{
			"vectorTileLayerStyles": map[string]any{info.LayerName: styles},
		}
	}
	m.Overlays = append(m.Overlays, o)
}

// Add adds a resolved layer of either kind.
func (m *Map) Add(layer service.Layer, info service.LayerTileInfo, opacity float64) error {
	switch layer.Type {
	case service.KindRaster:
		m.AddRaster(layer.Name, info, opacity)
	case service.KindVector:
		m.AddVector(layer.Name, info)
	default:
		return fmt.Errorf("%w: %q", service.ErrInvalidType, layer.Type)
	}
	return nil
}

func stylesOf(info service.LayerTileInfo) map[string]any {
	switch st := info.Info["styles"].(type) {
	case service.Style:
		return st
	case map[string]any:
		return st
	}
	return nil
}

var renderer *templates.Renderer

func init() {
	var err error
	renderer, err = templates.New(webFS, "web/*.html")
	if err != nil {
		panic(err)
	}
}

type page struct {
	Title    string
	Lat, Lon float64
	Zoom     int
	Overlays []Overlay
}

// Render writes the HTML page for m.
func Render(w io.Writer, m *Map) error {
	title := m.Title
	if strings.TrimSpace(title) == "" {
		title = "Design Studio"
	}
	overlays := m.Overlays
	if overlays == nil {
		overlays = []Overlay{}
	}
	return renderer.Execute(w, "map.html", page{
		Title:    title,
		Lat:      m.Center.Lat(),
		Lon:      m.Center.Lon(),
		Zoom:     m.Zoom,
		Overlays: overlays,
	})
}

// RenderFragment renders the overlay list shown beside the map.
func RenderFragment(m *Map) (string, error) {
	return renderer.Render("overlays", m.Overlays)
}
