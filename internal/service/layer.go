package service

import (
	"fmt"
)

// LayerService is the read-only layer registry. It is built once at startup and
// shared between requests without locking.
type LayerService struct {
	layers map[int]Layer
	order  []Layer
}

// NewLayerService creates a registry from records. Every record must carry a
// known type and a unique id.
func NewLayerService(layers ...Layer) (*LayerService, error) {
	s := &LayerService{
		layers: make(map[int]Layer, len(layers)),
	}
	for _, layer := range layers {
		kind, err := ParseKind(string(layer.Type))
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", layer.ID, err)
		}
		layer.Type = kind

		if _, exists := s.layers[layer.ID]; exists {
			return nil, fmt.Errorf("layer with ID %d already exists", layer.ID)
		}
		s.layers[layer.ID] = layer
		s.order = append(s.order, layer)
	}
	sortLayers(s.order)
	return s, nil
}

// EmptyLayerService returns a registry with no layers. Every lookup fails.
func EmptyLayerService() *LayerService {
	return &LayerService{layers: map[int]Layer{}}
}

// List returns all layers ordered by id.
func (s *LayerService) List() []Layer {
	out := make([]Layer, len(s.order))
	copy(out, s.order)
	return out
}

// Lookup returns a layer by id.
func (s *LayerService) Lookup(id int) (Layer, error) {
	layer, ok := s.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return layer, nil
}

// Len returns the number of registered layers.
func (s *LayerService) Len() int {
	return len(s.layers)
}

// DefaultLayers is the built-in seed table used when no other source is configured.
func DefaultLayers() []Layer {
	return []Layer{
		{
			ID:           1,
			Name:         "Landscape Capital Index",
			Type:         KindRaster,
			ColormapType: "continuous",
			Source:       "../data/raw/raster_data/final_lci.tif",
		},
		{
			ID:           2,
			Name:         "Land Cover",
			Type:         KindRaster,
			ColormapType: "categorical",
			Source:       "../data/raw/raster_data/land_cover.tif",
		},
		{
			ID:           3,
			Name:         "Country Boundaries",
			Type:         KindVector,
			ColormapType: "categorical",
			Source:       "public.countries",
		},
	}
}
