package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/joeblew999/design-studio/internal/api"
	"github.com/joeblew999/design-studio/internal/logging"
	"github.com/joeblew999/design-studio/internal/service"
)

// Version is reported by /health, /api/v1/info and the OpenAPI document.
const Version = "1.0.0"

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	PublicURL string // advertised in the OpenAPI servers list when set

	Tiles *service.TileService
	DB    *sql.DB // optional, backs /api/v1/tables/layers
	Table string

	Build  api.BuildInfo
	Logger logrus.FieldLogger
}

// Server is the design studio HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	services *api.Services
}

// New creates a new server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("Design Studio API", Version)
	humaConfig.Info.Description = "Resolves studio map layers to raster and vector tile URLs."
	serverURL := cfg.PublicURL
	if serverURL == "" {
		serverURL = fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port)
	}
	humaConfig.Servers = []*huma.Server{
		{URL: serverURL, Description: "Studio server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)
	humaAPI.UseMiddleware(api.RequestLogger(cfg.Logger))

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		services: &api.Services{
			Layers: cfg.Tiles.Layers(),
			Tiles:  cfg.Tiles,
		},
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the OpenAPI document of the registered routes.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.config.DB != nil {
		return s.config.DB.Close()
	}
	return nil
}

func (s *Server) routes() {
	build := s.config.Build
	build.Version = Version
	build.DB = s.config.DB != nil

	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services))
	huma.AutoRegister(s.humaAPI, api.NewInfoHandler(build, s.services.Layers.Len))
	huma.AutoRegister(s.humaAPI, api.NewTableHandler(s.config.DB, s.config.Table))
	huma.AutoRegister(s.humaAPI, api.NewPreviewHandler(s.services.Tiles))

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"service": "design-studio",
		"status":  "running",
		"layers":  s.services.Layers.Len(),
		"docs":    "/docs",
	})
}
