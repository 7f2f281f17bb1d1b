// Package web serves the catalog as server-rendered pages and a small JSON API.
// Pages use the same locations as the terminal UI, so "/listing?genres=Action"
// and "/movie/10" address the same views in both.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/mmcdole/reel/internal/domain"
)

// Server timeouts
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Config holds the server's collaborators
type Config struct {
	Catalog        domain.CatalogRepository
	Logger         *slog.Logger
	AllowedOrigins []string // CORS origins for /api; empty allows none
}

// Server renders catalog pages over HTTP
type Server struct {
	catalog domain.CatalogRepository
	logger  *slog.Logger
	pages   *template.Template
	router  chi.Router
}

// New creates a server and registers its routes
func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		catalog: cfg.Catalog,
		logger:  logger,
		pages:   pages,
	}
	s.router = s.routes(cfg.AllowedOrigins)
	return s, nil
}

func (s *Server) routes(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
	}))

	r.Method(http.MethodGet, "/", http.HandlerFunc(s.redirectRoot))
	r.Method(http.MethodGet, "/listing", s.page(s.getListing))
	r.Method(http.MethodGet, "/movie/{id}", s.page(s.getMovie))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Method(http.MethodGet, "/movies", Adapt(s.getMovies))
		r.Method(http.MethodGet, "/movies/{id}", Adapt(s.getMovieJSON))
		r.NotFound(Adapt(func(w http.ResponseWriter, r *http.Request) error {
			return notFound("not found")
		}).ServeHTTP)
	})

	r.NotFound(s.page(s.getNotFound).ServeHTTP)

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("web server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
