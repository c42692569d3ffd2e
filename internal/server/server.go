package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yhinai/clippy/internal/agent"
	"github.com/yhinai/clippy/internal/config"
	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/internal/server/handlers"
)

// Server is the sidecar HTTP API server the host application talks to.
type Server struct {
	cfg    *config.Config
	http   *http.Server
	store  memory.Store
	logger *slog.Logger
}

// New creates a Server wiring the given store and agent into the routes.
func New(cfg *config.Config, store memory.Store, ag *agent.Agent, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(logger))

	health := &handlers.HealthHandler{Store: store, MockMode: cfg.MockMode()}
	mem := &handlers.MemoryHandler{Store: store}
	ah := &handlers.AgentHandler{Agent: ag}

	r.Get("/health", health.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/memory", mem.Add)
		r.Get("/memory/list", mem.List)
		r.Get("/memory/count", mem.Count)
		r.Post("/agent/message", ah.Message)
		r.Post("/agent/vision", ah.Vision)
		r.Post("/agent/reflect", ah.Reflect)
	})

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}

	return s
}

// Handler returns the root HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start starts the server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.logger.Info("clippy sidecar listening", "addr", s.http.Addr, "mock_mode", s.cfg.MockMode())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down sidecar")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	case serveErr = <-errCh:
	}

	// The final index flush happens here, on every exit path.
	if err := s.store.Close(); err != nil {
		s.logger.Error("store close error", "error", err)
	}
	return serveErr
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
