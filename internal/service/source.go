package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/joeblew999/design-studio/internal/db"
	"github.com/joeblew999/design-studio/internal/logging"
	"github.com/joeblew999/design-studio/pkg/studioclient"
)

// LayerSource names where the registry is initialised from.
type LayerSource string

const (
	// SourceStatic uses a seed file, or the built-in table when no file is given.
	SourceStatic LayerSource = "static"
	// SourceRemote fetches a sibling /layers listing once at startup.
	SourceRemote LayerSource = "remote"
	// SourceDatabase reads the layer table once at startup.
	SourceDatabase LayerSource = "database"
)

// LoadOptions configures LoadLayerService.
type LoadOptions struct {
	From   LayerSource
	File   string               // static seed file (YAML, TOML or JSON)
	Remote *studioclient.Client // remote layer listing
	DB     *sql.DB              // database holding the layer table
	Table  string               // layer table, db.DefaultTable when empty; see db.ResolveTable
}

// LoadLayerService initialises the registry from the configured source.
//
// A bad static seed is a startup error. Remote and database failures are logged
// and leave the registry empty, so every lookup then fails with ErrNotFound.
func LoadLayerService(ctx context.Context, opts LoadOptions, log logrus.FieldLogger) (*LayerService, error) {
	if log == nil {
		log = logging.Discard()
	}
	switch opts.From {
	case SourceStatic, "":
		layers := DefaultLayers()
		if opts.File != "" {
			var err error
			layers, err = LoadSeedFile(opts.File)
			if err != nil {
				return nil, err
			}
		}
		return NewLayerService(layers...)

	case SourceRemote:
		if opts.Remote == nil {
			return nil, fmt.Errorf("remote layer source needs a layers URL")
		}
		layers, err := FetchLayers(ctx, opts.Remote)
		return emptyOnError(layers, err, log, "fetching remote layers")

	case SourceDatabase:
		if opts.DB == nil {
			return nil, fmt.Errorf("database layer source needs a database")
		}
		layers, err := QueryLayers(ctx, opts.DB, opts.Table)
		return emptyOnError(layers, err, log, "querying layer table")
	}
	return nil, fmt.Errorf("unknown layer source %q", opts.From)
}

func emptyOnError(layers []Layer, err error, log logrus.FieldLogger, what string) (*LayerService, error) {
	if err == nil {
		var s *LayerService
		s, err = NewLayerService(layers...)
		if err == nil {
			log.WithField("layers", s.Len()).Info("layer registry loaded")
			return s, nil
		}
	}
	log.WithError(err).Errorf("%s, starting with an empty registry", what)
	return EmptyLayerService(), nil
}

// LoadSeedFile reads a "layers" list from a seed file. The format follows the
// file extension.
func LoadSeedFile(path string) ([]Layer, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var records []map[string]any
	switch raw := v.Get("layers").(type) {
	case []any:
		for i, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("seed file %s: layer %d is not a table", path, i)
			}
			records = append(records, m)
		}
	case []map[string]any:
		records = raw
	case nil:
		return nil, fmt.Errorf("seed file %s: no layers", path)
	default:
		return nil, fmt.Errorf("seed file %s: layers must be a list, got %T", path, raw)
	}
	return layersFromMaps(records)
}

// FetchLayers reads the layer listing of a sibling service.
func FetchLayers(ctx context.Context, c *studioclient.Client) ([]Layer, error) {
	records, err := c.ListLayers(ctx)
	if err != nil {
		return nil, err
	}
	return layersFromMaps(records)
}

// QueryLayers reads every row of the layer table.
func QueryLayers(ctx context.Context, conn *sql.DB, table string) ([]Layer, error) {
	if table == "" {
		table = db.DefaultTable
	}
	q, err := db.SelectAll(table)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryMaps(ctx, conn, q)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	return layersFromMaps(rows)
}

func layersFromMaps(records []map[string]any) ([]Layer, error) {
	layers := make([]Layer, 0, len(records))
	for _, m := range records {
		layer, err := LayerFromMap(m)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}
