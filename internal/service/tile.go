package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/joeblew999/design-studio/internal/logging"
	"github.com/joeblew999/design-studio/internal/tiler"
	"github.com/joeblew999/design-studio/internal/tiler/cog"
	"github.com/joeblew999/design-studio/internal/tiler/features"
)

// TileRequest is what a TileHandler needs to build a backend request.
type TileRequest struct {
	Layer Layer
	Style Style // effective style: default style merged with the request override
}

// TileHandler builds and issues the backend request for one layer kind.
type TileHandler interface {
	FetchTileJSON(ctx context.Context, req TileRequest) (*tiler.TileJSON, error)
}

// TileHandlerFunc adapts a function to TileHandler.
type TileHandlerFunc func(ctx context.Context, req TileRequest) (*tiler.TileJSON, error)

// FetchTileJSON calls f.
func (f TileHandlerFunc) FetchTileJSON(ctx context.Context, req TileRequest) (*tiler.TileJSON, error) {
	return f(ctx, req)
}

// RasterHandler returns the raster strategy backed by the COG tiler.
func RasterHandler(c *cog.Client) TileHandler {
	return TileHandlerFunc(func(ctx context.Context, req TileRequest) (*tiler.TileJSON, error) {
		tj, err := c.TileJSON(ctx, cog.Request{
			Source: req.Layer.Source,
			Band:   cog.DefaultBand,
			Style:  req.Style,
		})
		if errors.Is(err, cog.ErrInvalidColormap) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
		}
		return tj, err
	})
}

// VectorHandler returns the vector strategy backed by the feature tiler.
func VectorHandler(c *features.Client) TileHandler {
	return TileHandlerFunc(func(ctx context.Context, req TileRequest) (*tiler.TileJSON, error) {
		return c.TileJSON(ctx, req.Layer.Source)
	})
}

// TileService resolves layers to tile URLs through the raster or vector backend.
type TileService struct {
	layers *LayerService
	raster TileHandler
	vector TileHandler
	log    logrus.FieldLogger
}

// NewTileService creates a tile service over a registry and the two strategies.
func NewTileService(layers *LayerService, raster, vector TileHandler, log logrus.FieldLogger) *TileService {
	if log == nil {
		log = logging.Discard()
	}
	return &TileService{
		layers: layers,
		raster: raster,
		vector: vector,
		log:    log,
	}
}

// Layers returns the registry the service resolves against.
func (s *TileService) Layers() *LayerService {
	return s.layers
}

// Resolve selects the strategy for a layer kind.
func (s *TileService) Resolve(kind Kind) (TileHandler, error) {
	switch kind {
	case KindRaster:
		return s.raster, nil
	case KindVector:
		return s.vector, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, kind)
}

// Describe looks up a layer, fetches its tile descriptor through the matching
// strategy and reshapes it into LayerTileInfo. styles is merged over the layer's
// default style.
func (s *TileService) Describe(ctx context.Context, id int, styles Style) (LayerTileInfo, *tiler.TileJSON, error) {
	layer, err := s.layers.Lookup(id)
	if err != nil {
		return LayerTileInfo{}, nil, err
	}
	handler, err := s.Resolve(layer.Type)
	if err != nil {
		return LayerTileInfo{}, nil, err
	}

	log := logging.FromContext(ctx, s.log).WithFields(logrus.Fields{
		"layer": layer.ID,
		"type":  layer.Type,
	})

	style := layer.DefaultStyle.Merge(styles)
	tj, err := handler.FetchTileJSON(ctx, TileRequest{Layer: layer, Style: style})
	if err != nil {
		log.WithError(err).Warn("tile descriptor request failed")
		return LayerTileInfo{}, nil, err
	}

	info := LayerTileInfo{
		URL:  tj.URL(),
		Info: layer.Info(style),
	}
	if summary := tj.Summary(); len(summary) > 0 {
		info.Info["tilejson"] = summary
	}
	if layer.Type == KindVector {
		info.LayerName = features.LayerName(tj)
	}

	log.Debug("resolved tile url")
	return info, tj, nil
}

// Fetch resolves a layer of any kind to its tile info.
func (s *TileService) Fetch(ctx context.Context, id int, styles Style) (LayerTileInfo, error) {
	info, _, err := s.Describe(ctx, id, styles)
	return info, err
}

// RasterTiles resolves a raster layer. Vector layers fail with ErrKindMismatch.
func (s *TileService) RasterTiles(ctx context.Context, id int, styles Style) (LayerTileInfo, error) {
	if err := s.expect(id, KindRaster); err != nil {
		return LayerTileInfo{}, err
	}
	return s.Fetch(ctx, id, styles)
}

// VectorTiles resolves a vector layer. Raster layers fail with ErrKindMismatch.
func (s *TileService) VectorTiles(ctx context.Context, id int) (LayerTileInfo, error) {
	if err := s.expect(id, KindVector); err != nil {
		return LayerTileInfo{}, err
	}
	return s.Fetch(ctx, id, nil)
}

func (s *TileService) expect(id int, kind Kind) error {
	layer, err := s.layers.Lookup(id)
	if err != nil {
		return err
	}
	if layer.Type != kind {
		return fmt.Errorf("%w: layer %d is %s, not %s", ErrKindMismatch, id, layer.Type, kind)
	}
	return nil
}
