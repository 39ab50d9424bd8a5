package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// BuildInfo describes how the running service is wired.
type BuildInfo struct {
	Version     string
	LayerSource string
	RasterURL   string
	VectorURL   string
	DB          bool
}

type InfoHandler struct {
	build  BuildInfo
	layers func() int
}

func NewInfoHandler(build BuildInfo, layers func() int) *InfoHandler {
	return &InfoHandler{build: build, layers: layers}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name        string   `json:"name" doc:"Service name"`
	Version     string   `json:"version" doc:"Service version"`
	LayerSource string   `json:"layer_source" doc:"Where the layer registry was loaded from" example:"static"`
	Layers      int      `json:"layers" doc:"Number of registered layers"`
	RasterTiler string   `json:"raster_tiler" doc:"Raster tile backend base URL"`
	VectorTiler string   `json:"vector_tiler" doc:"Vector tile backend base URL"`
	DB          bool     `json:"db" doc:"Whether the layer table is available"`
	Features    []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	features := []string{"raster_tiles", "vector_tiles", "preview"}
	if h.build.DB {
		features = append(features, "layer_table")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:        "design-studio",
		Version:     h.build.Version,
		LayerSource: h.build.LayerSource,
		Layers:      h.layers(),
		RasterTiler: h.build.RasterURL,
		VectorTiler: h.build.VectorURL,
		DB:          h.build.DB,
		Features:    features,
	}}, nil
}
