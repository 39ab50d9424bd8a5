package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/design-studio/internal/api"
	"github.com/joeblew999/design-studio/internal/db"
	"github.com/joeblew999/design-studio/internal/logging"
	"github.com/joeblew999/design-studio/internal/server"
	"github.com/joeblew999/design-studio/internal/service"
	"github.com/joeblew999/design-studio/internal/tiler"
	"github.com/joeblew999/design-studio/internal/tiler/cog"
	"github.com/joeblew999/design-studio/internal/tiler/features"
	"github.com/joeblew999/design-studio/pkg/studioclient"
)

// Options defines all CLI flags and env vars for the studio server.
// Flags: --host, --port, --layers-from, ...
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_LAYERS_FROM, ...
type Options struct {
	Host           string `doc:"Host to bind to" default:"0.0.0.0"`
	Port           int    `doc:"Port to listen on" short:"p" default:"8087"`
	PublicURL      string `doc:"Public base URL advertised in the OpenAPI document"`
	LayersFrom     string `doc:"Layer registry source: static, remote or database" default:"static"`
	LayersFile     string `doc:"Seed file (YAML, TOML or JSON) for the static registry"`
	LayersURL      string `doc:"Base URL of a sibling service whose /layers listing seeds the registry" default:"http://127.0.0.1:8000"`
	DatabaseURL    string `doc:"postgres:// URL or DuckDB file holding the layer table (falls back to DATABASE_URL)"`
	LayersTable    string `doc:"Layer table name (public.layers for PostgreSQL, layers for DuckDB when empty)"`
	RasterURL      string `doc:"Raster COG tiler base URL" default:"http://127.0.0.1:8000/tiler/cog"`
	VectorURL      string `doc:"Vector feature tiler base URL" default:"http://127.0.0.1:8000/tiler/features"`
	BackendToken   string `doc:"Bearer token sent to the tile backends"`
	BackendTimeout int    `doc:"Tile backend timeout in seconds" default:"30"`
	LogLevel       string `doc:"Log level (debug, info, warn, error)" default:"info"`
	LogDir         string `doc:"Directory for daily log files, terminal only when empty"`
}

// app is everything a command needs, built once from Options.
type app struct {
	log   *logrus.Logger
	db    *sql.DB
	tiles *service.TileService
	srv   *server.Server
}

func newApp(ctx context.Context, opts *Options) (*app, error) {
	log, err := logging.New(logging.Config{Level: opts.LogLevel, Dir: opts.LogDir, Terminal: true})
	if err != nil {
		return nil, err
	}

	from := service.LayerSource(opts.LayersFrom)
	dsn := opts.DatabaseURL
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	var conn *sql.DB
	if dsn != "" {
		conn, err = db.Open(ctx, db.Config{DSN: dsn})
		if err != nil {
			if from == service.SourceDatabase {
				return nil, err
			}
			log.WithError(err).Warn("layer table unavailable")
			conn = nil
		}
	} else if from == service.SourceDatabase {
		return nil, errors.New("--layers-from=database needs --database-url or DATABASE_URL")
	}

	table := db.ResolveTable(dsn, opts.LayersTable)
	load := service.LoadOptions{
		From:  from,
		File:  opts.LayersFile,
		DB:    conn,
		Table: table,
	}
	if from == service.SourceRemote {
		load.Remote = studioclient.New(opts.LayersURL)
	}
	layers, err := service.LoadLayerService(ctx, load, log)
	if err != nil {
		return nil, err
	}

	backend := func(base string) tiler.Config {
		return tiler.Config{
			BaseURL: base,
			Token:   opts.BackendToken,
			Timeout: time.Duration(opts.BackendTimeout) * time.Second,
		}
	}
	tiles := service.NewTileService(layers,
		service.RasterHandler(cog.New(backend(opts.RasterURL))),
		service.VectorHandler(features.New(backend(opts.VectorURL))),
		log,
	)

	srv := server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		PublicURL: opts.PublicURL,
		Tiles:     tiles,
		DB:        conn,
		Table:     table,
		Logger:    log,
		Build: api.BuildInfo{
			LayerSource: string(from),
			RasterURL:   opts.RasterURL,
			VectorURL:   opts.VectorURL,
		},
	})
	return &app{log: log, db: conn, tiles: tiles, srv: srv}, nil
}

func mustApp(opts *Options) *app {
	a, err := newApp(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var httpServer *http.Server

		hooks.OnStart(func() {
			a := mustApp(opts)
			defer a.srv.Close()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			a.log.WithFields(logrus.Fields{
				"addr":   baseURL,
				"layers": a.tiles.Layers().Len(),
				"source": opts.LayersFrom,
			}).Info("design studio server starting")
			fmt.Println()
			fmt.Printf("  Preview: %s/preview\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			httpServer = &http.Server{Addr: addr, Handler: a.srv}
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.WithError(err).Fatal("server error")
			}
		})

		hooks.OnStop(func() {
			if httpServer == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(ctx)
		})
	})

	cli.Root().Use = "studio"
	cli.Root().Short = "Tile gateway for the map design studio"
	cli.Root().Version = server.Version

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			// The document does not depend on where layers come from.
			opts.LayersFrom = string(service.SourceStatic)
			opts.LayersFile = ""
			opts.DatabaseURL = ""
			os.Unsetenv("DATABASE_URL")
			spec := mustApp(opts).srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")
			if !useYAML {
				printJSON(spec)
				return
			}
			output, err := yaml.Marshal(spec)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// layers subcommand: print the registry
	cli.Root().AddCommand(&cobra.Command{
		Use:   "layers",
		Short: "Print the layer registry",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			printJSON(mustApp(opts).tiles.Layers().List())
		}),
	})

	// tile subcommand: resolve one concrete tile URL
	tileCmd := &cobra.Command{
		Use:   "tile",
		Short: "Resolve a layer and print the tile URL covering a point",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			id, _ := cmd.Flags().GetInt("id")
			lon, _ := cmd.Flags().GetFloat64("lon")
			lat, _ := cmd.Flags().GetFloat64("lat")
			zoom, _ := cmd.Flags().GetUint32("zoom")

			a := mustApp(opts)
			info, tj, err := a.tiles.Describe(context.Background(), id, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			t := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoom))
			printJSON(map[string]any{
				"template":   info.URL,
				"layer_name": info.LayerName,
				"tile":       []uint32{uint32(t.Z), t.X, t.Y},
				"url":        tj.TileURL(t),
			})
		}),
	}
	tileCmd.Flags().Int("id", 1, "Layer ID")
	tileCmd.Flags().Float64("lon", 55.0, "Longitude")
	tileCmd.Flags().Float64("lat", 25.0, "Latitude")
	tileCmd.Flags().Uint32("zoom", 3, "Zoom level")
	cli.Root().AddCommand(tileCmd)

	cli.Run()
}
