package api

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/design-studio/internal/humastar"
	"github.com/joeblew999/design-studio/internal/preview"
	"github.com/joeblew999/design-studio/internal/service"
)

// PreviewHandler serves the Leaflet preview page and its Datastar stream.
type PreviewHandler struct {
	tiles *service.TileService
}

func NewPreviewHandler(tiles *service.TileService) *PreviewHandler {
	return &PreviewHandler{tiles: tiles}
}

func (h *PreviewHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/preview", h.GetPreview, huma.OperationTags("preview"))
	huma.Get(api, "/api/v1/preview/layers/{id}", h.StreamLayer, huma.OperationTags("preview"))
}

type PreviewInput struct {
	IDs     string  `query:"ids" doc:"Comma separated layer IDs, all layers when empty" example:"1,3"`
	Zoom    int     `query:"zoom" minimum:"0" maximum:"24" doc:"Initial zoom, taken from the first layer when 0"`
	Opacity float64 `query:"opacity" minimum:"0" maximum:"1" default:"1" doc:"Raster overlay opacity"`
}

type HTMLOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (h *PreviewHandler) GetPreview(ctx context.Context, input *PreviewInput) (*HTMLOutput, error) {
	ids, err := parseIDs(input.IDs)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("ids must be a comma separated list of integers", err)
	}
	if len(ids) == 0 {
		for _, l := range h.tiles.Layers().List() {
			ids = append(ids, l.ID)
		}
	}

	m := preview.New("Design Studio preview")
	for i, id := range ids {
		layer, err := h.tiles.Layers().Lookup(id)
		if err != nil {
			return nil, ToHumaError(err)
		}
		info, tj, err := h.tiles.Describe(ctx, id, nil)
		if err != nil {
			return nil, ToHumaError(err)
		}
		if i == 0 && (len(tj.Center) >= 2 || len(tj.Bounds) == 4) {
			m.Center = tj.CenterPoint()
			m.Zoom = tj.CenterZoom(preview.DefaultZoom)
		}
		if err := m.Add(layer, info, input.Opacity); err != nil {
			return nil, ToHumaError(err)
		}
	}
	if input.Zoom > 0 {
		m.Zoom = input.Zoom
	}

	var buf bytes.Buffer
	if err := preview.Render(&buf, m); err != nil {
		return nil, huma.Error500InternalServerError("rendering preview", err)
	}
	return &HTMLOutput{ContentType: "text/html; charset=utf-8", Body: buf.Bytes()}, nil
}

// StreamLayer resolves one layer and pushes it to the page as Datastar signals
// plus a patched overlay list.
func (h *PreviewHandler) StreamLayer(ctx context.Context, input *IDInput) (*huma.StreamResponse, error) {
	layer, err := h.tiles.Layers().Lookup(input.ID)
	if err != nil {
		return nil, ToHumaError(err)
	}
	info, _, err := h.tiles.Describe(ctx, input.ID, nil)
	if err != nil {
		return nil, ToHumaError(err)
	}

	m := preview.New(layer.Name)
	if err := m.Add(layer, info, 1); err != nil {
		return nil, ToHumaError(err)
	}
	fragment, err := preview.RenderFragment(m)
	if err != nil {
		return nil, huma.Error500InternalServerError("rendering overlays", err)
	}

	return humastar.Stream(func(sse humastar.SSE) {
		sse.Signals(map[string]any{
			"layer":     layer.ID,
			"name":      layer.Name,
			"type":      string(layer.Type),
			"url":       info.URL,
			"layerName": info.LayerName,
			"overlays":  m.Overlays,
		})
		sse.Patch(fragment, "#overlays")
	}), nil
}

func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
