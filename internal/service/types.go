// Package service contains the layer registry and tile dispatch of the design studio.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the declared type of a layer. It is a closed set: raster or vector.
type Kind string

const (
	KindRaster Kind = "raster"
	KindVector Kind = "vector"
)

// ParseKind maps a type string to a Kind, failing with ErrInvalidType.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRaster:
		return KindRaster, nil
	case KindVector:
		return KindVector, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Style is an open key-value style object, e.g. a colour map keyed by pixel value.
type Style map[string]any

// Merge returns a copy of s with override applied on top.
func (s Style) Merge(override Style) Style {
	out := make(Style, len(s)+len(override))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Layer is a registered map data source.
// Source holds a raster path or URL for raster layers and a schema-qualified
// collection name for vector layers.
type Layer struct {
	ID           int            `json:"id" doc:"Layer ID" example:"1"`
	Name         string         `json:"name" doc:"Display name" example:"Land Cover"`
	Type         Kind           `json:"type" enum:"raster,vector" doc:"Layer type"`
	Source       string         `json:"source" doc:"Raster path/URL or vector collection" example:"public.countries"`
	ColormapType string         `json:"colormap_type,omitempty" doc:"Colour map type" example:"categorical"`
	DefaultStyle Style          `json:"default_style,omitempty" doc:"Default style object"`
	Extra        map[string]any `json:"extra,omitempty" doc:"Additional metadata columns"`

	sourceKey string // record key Source was read from, when it was an alias
}

// sourceKeys are the record keys accepted for Layer.Source, in priority order.
var sourceKeys = []string{"source", "path", "url", "collection"}

// styleKeys are the record keys accepted for Layer.DefaultStyle.
var styleKeys = []string{"default_style", "styles", "style"}

// LayerFromMap builds a Layer from a loosely typed record, as returned by the
// remote layer listing or a database row.
func LayerFromMap(m map[string]any) (Layer, error) {
	var l Layer
	seen := map[string]bool{"id": true, "name": true, "type": true, "colormap_type": true, "extra": true}

	id, err := toInt(m["id"])
	if err != nil {
		return l, fmt.Errorf("layer id: %w", err)
	}
	l.ID = id
	l.Name = toString(m["name"])
	l.ColormapType = toString(m["colormap_type"])

	kind, err := ParseKind(toString(m["type"]))
	if err != nil {
		return l, fmt.Errorf("layer %d: %w", id, err)
	}
	l.Type = kind

	for _, k := range sourceKeys {
		seen[k] = true
		if l.Source == "" {
			l.Source = toString(m[k])
			if l.Source != "" && k != "source" {
				l.sourceKey = k
			}
		}
	}
	for _, k := range styleKeys {
		seen[k] = true
		if l.DefaultStyle == nil {
			st, err := toStyle(m[k])
			if err != nil {
				return l, fmt.Errorf("layer %d %s: %w", id, k, err)
			}
			l.DefaultStyle = st
		}
	}

	nested, _ := m["extra"].(map[string]any)
	for k, v := range nested {
		l.setExtra(k, v)
	}
	for k, v := range m {
		if !seen[k] && v != nil {
			l.setExtra(k, v)
		}
	}
	return l, nil
}

func (l *Layer) setExtra(k string, v any) {
	if l.Extra == nil {
		l.Extra = map[string]any{}
	}
	l.Extra[k] = v
}

// UnmarshalJSON accepts the source and style aliases used by older layer listings.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	parsed, err := LayerFromMap(m)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Info returns the layer metadata exposed to callers: every field except the id,
// with extra metadata flattened and the effective style under "styles". The
// source is reported under the key the record used, or "path" (raster) and
// "collection" (vector) when it was given as "source".
func (l Layer) Info(styles Style) map[string]any {
	info := make(map[string]any, len(l.Extra)+5)
	for k, v := range l.Extra {
		info[k] = v
	}
	info["name"] = l.Name
	info["type"] = string(l.Type)
	switch {
	case l.sourceKey != "":
		info[l.sourceKey] = l.Source
	case l.Type == KindRaster:
		info["path"] = l.Source
	case l.Type == KindVector:
		info["collection"] = l.Source
	}
	if l.ColormapType != "" {
		info["colormap_type"] = l.ColormapType
	}
	info["styles"] = styles
	return info
}

// LayerTileInfo is the normalised tile response returned to callers.
type LayerTileInfo struct {
	URL       string         `json:"url" doc:"Tile URL template" example:"http://127.0.0.1:8000/tiler/cog/tiles/{z}/{x}/{y}"`
	LayerName string         `json:"layer_name,omitempty" doc:"Vector sub-layer name (vector layers only)"`
	Info      map[string]any `json:"info" doc:"Layer metadata merged with the effective style"`
}

func sortLayers(layers []Layer) {
	sort.Slice(layers, func(i, j int) bool { return layers[i].ID < layers[j].ID })
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("non-integer %v", t)
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(t)
	case []byte:
		return strconv.Atoi(string(t))
	case nil:
		return 0, fmt.Errorf("missing")
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

// toStyle accepts a decoded object or a JSON document stored as text.
func toStyle(v any) (Style, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Style:
		return t, nil
	case map[string]any:
		return Style(t), nil
	case map[any]any:
		st := make(Style, len(t))
		for k, val := range t {
			st[fmt.Sprint(k)] = val
		}
		return st, nil
	case string:
		return parseStyleJSON([]byte(t))
	case []byte:
		return parseStyleJSON(t)
	}
	return nil, fmt.Errorf("unsupported style type %T", v)
}

func parseStyleJSON(b []byte) (Style, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, nil
	}
	var st Style
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return st, nil
}
