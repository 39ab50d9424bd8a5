package api

import (
	"context"
	"database/sql"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/design-studio/internal/db"
)

// TableHandler serves live rows of the canonical layer table.
type TableHandler struct {
	db    *sql.DB
	table string
}

// NewTableHandler creates a layer table handler. conn may be nil.
func NewTableHandler(conn *sql.DB, table string) *TableHandler {
	if table == "" {
		table = db.DefaultTable
	}
	return &TableHandler{db: conn, table: table}
}

// RegisterRoutes registers layer table routes with Huma.
func (h *TableHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/tables/layers", h.ListRows, huma.OperationTags("tables"))
	huma.Get(api, "/api/v1/tables/layers/{id}", h.GetRow, huma.OperationTags("tables"))
}

// RowsOutput is the response for listing table rows.
type RowsOutput struct {
	Body struct {
		Table string           `json:"table" doc:"Table name" example:"public.layers"`
		Rows  []map[string]any `json:"rows" doc:"Table rows"`
		Count int              `json:"count" doc:"Number of rows returned"`
	}
}

// RowOutput is the response for a single table row.
type RowOutput struct {
	Body map[string]any
}

// ListRows returns every row of the layer table.
func (h *TableHandler) ListRows(ctx context.Context, input *struct{}) (*RowsOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}
	q, err := db.SelectAll(h.table)
	if err != nil {
		return nil, huma.Error500InternalServerError("Invalid layer table", err)
	}
	rows, err := db.QueryMaps(ctx, h.db, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to query layer table", err)
	}

	out := &RowsOutput{}
	out.Body.Table = h.table
	out.Body.Rows = rows
	out.Body.Count = len(rows)
	return out, nil
}

// GetRow returns one row of the layer table by id.
func (h *TableHandler) GetRow(ctx context.Context, input *IDInput) (*RowOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}
	q, err := db.SelectByID(h.table)
	if err != nil {
		return nil, huma.Error500InternalServerError("Invalid layer table", err)
	}
	rows, err := db.QueryMaps(ctx, h.db, q, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to query layer table", err)
	}
	if len(rows) == 0 {
		return nil, huma.Error404NotFound("layer not found")
	}
	return &RowOutput{Body: rows[0]}, nil
}
