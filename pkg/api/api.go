package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
	"github.com/k8s-lovers-korea/test-go-app/pkg/config"
	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
	"github.com/k8s-lovers-korea/test-go-app/pkg/simulation"
)

// Server is the HTTP server exposing the application's full API surface.
type Server struct {
	cfg        *config.Config
	store      storage.ItemStore
	controller *simulation.Controller
	backend    *backendclient.Client

	mux        *http.ServeMux
	httpServer *http.Server
	registry   *metrics.Registry
	log        *slog.Logger

	startTime   time.Time
	openapiJSON []byte
	restartFn   func()
}

// NewServer assembles the API server around cfg. Collaborators not
// supplied via options are constructed with defaults derived from cfg.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:       cfg,
		log:       slog.Default(),
		registry:  metrics.Init(),
		startTime: time.Now(),
		restartFn: func() { os.Exit(0) },
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = storage.NewInMemoryItemStore()
	}
	if s.controller == nil {
		s.controller = simulation.NewController(simulation.Config{
			HoldDuration: cfg.Simulation.HoldDuration(),
			MaxTimeout:   cfg.Simulation.MaxTimeout(),
			Logger:       s.log,
		})
	}
	if s.backend == nil {
		s.backend = backendclient.New(cfg.Backend.BaseURL,
			backendclient.WithTimeout(time.Duration(cfg.Backend.Timeout)*time.Second))
	}

	s.buildOpenAPI()

	s.mux = http.NewServeMux()
	s.registerRoutes(s.mux)
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.withObservability(s.mux),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return s
}

// buildOpenAPI constructs and serializes the OpenAPI document once. A
// document that fails its own validation is a programming error; it is
// logged and the endpoint degrades to a 500.
func (s *Server) buildOpenAPI() {
	doc := s.buildOpenAPIDocument()
	if err := doc.Validate(context.Background()); err != nil {
		s.log.Error("openapi document failed validation", "error", err)
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.log.Error("marshaling openapi document", "error", err)
		return
	}
	s.openapiJSON = data
}

// Start begins serving in the background and returns immediately.
func (s *Server) Start() error {
	s.startTime = time.Now()
	s.log.Info("starting API server", "addr", s.cfg.Server.Addr())

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server, bounded by the configured
// shutdown timeout.
func (s *Server) Stop() error {
	s.log.Info("stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Handler returns the server's root handler, middleware included. Tests
// drive it directly through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Server.Addr()
}

// Uptime returns whole seconds since the server started, or since
// construction when the server is driven directly by tests.
func (s *Server) Uptime() int {
	return int(time.Since(s.startTime).Seconds())
}
