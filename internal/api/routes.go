// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/design-studio/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Layers *service.LayerService
	Tiles  *service.TileService
}

// Types

type IDInput struct {
	ID int `path:"id" doc:"Layer ID" example:"1"`
}

type LayerOutput struct {
	Body service.Layer
}

type LayersOutput struct {
	Body []service.Layer
}

type TileInfoOutput struct {
	Body service.LayerTileInfo
}

type RasterTilesInput struct {
	ID     int    `query:"id" required:"true" doc:"Layer ID" example:"1"`
	Styles string `query:"styles" doc:"Style override as a JSON object" example:"{\"1\":\"#00ff00\"}"`
}

type VectorTilesInput struct {
	ID int `query:"id" required:"true" doc:"Layer ID" example:"3"`
}

type RasterTilesBody struct {
	ID     int            `json:"id" doc:"Layer ID" example:"1"`
	Styles map[string]any `json:"styles,omitempty" doc:"Style override"`
}

type VectorTilesBody struct {
	ID int `json:"id" doc:"Layer ID" example:"3"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
	Layers  int    `json:"layers" doc:"Number of registered layers" example:"3"`
}

// APIHandler holds the layer and tile handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterLayers registers layer registry routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("layers"))
}

// RegisterTiles registers the raster and vector tile routes.
func (h *APIHandler) RegisterTiles(api huma.API) {
	huma.Get(api, "/raster_tiles", h.GetRasterTiles, huma.OperationTags("tiles"))
	huma.Post(api, "/raster_tiles", h.PostRasterTiles, huma.OperationTags("tiles"))
	huma.Get(api, "/vector_tiles", h.GetVectorTiles, huma.OperationTags("tiles"))
	huma.Post(api, "/vector_tiles", h.PostVectorTiles, huma.OperationTags("tiles"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{
		Status:  "ok",
		Version: "1.0.0",
		Layers:  h.svc.Layers.Len(),
	}}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*LayersOutput, error) {
	return &LayersOutput{Body: h.svc.Layers.List()}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*LayerOutput, error) {
	layer, err := h.svc.Layers.Lookup(input.ID)
	if err != nil {
		return nil, ToHumaError(err)
	}
	return &LayerOutput{Body: layer}, nil
}

func (h *APIHandler) GetRasterTiles(ctx context.Context, input *RasterTilesInput) (*TileInfoOutput, error) {
	styles, err := ParseStyles(input.Styles)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("styles must be a JSON object", err)
	}
	return h.raster(ctx, input.ID, styles)
}

func (h *APIHandler) PostRasterTiles(ctx context.Context, input *struct{ Body RasterTilesBody }) (*TileInfoOutput, error) {
	return h.raster(ctx, input.Body.ID, service.Style(input.Body.Styles))
}

func (h *APIHandler) GetVectorTiles(ctx context.Context, input *VectorTilesInput) (*TileInfoOutput, error) {
	return h.vector(ctx, input.ID)
}

func (h *APIHandler) PostVectorTiles(ctx context.Context, input *struct{ Body VectorTilesBody }) (*TileInfoOutput, error) {
	return h.vector(ctx, input.Body.ID)
}

func (h *APIHandler) raster(ctx context.Context, id int, styles service.Style) (*TileInfoOutput, error) {
	info, err := h.svc.Tiles.RasterTiles(ctx, id, styles)
	if err != nil {
		return nil, ToHumaError(err)
	}
	return &TileInfoOutput{Body: info}, nil
}

func (h *APIHandler) vector(ctx context.Context, id int) (*TileInfoOutput, error) {
	info, err := h.svc.Tiles.VectorTiles(ctx, id)
	if err != nil {
		return nil, ToHumaError(err)
	}
	return &TileInfoOutput{Body: info}, nil
}

// ParseStyles decodes the styles query parameter. An empty value means no override.
func ParseStyles(raw string) (service.Style, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var styles service.Style
	if err := json.Unmarshal([]byte(raw), &styles); err != nil {
		return nil, err
	}
	return styles, nil
}
