package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"stock-options-api/internal/config"
	"stock-options-api/internal/yahoo"
)

// Server owns the HTTP listener and routing for the API.
type Server struct {
	cfg    config.ServerConfig
	router *mux.Router
	logger zerolog.Logger
	http   *http.Server
}

// New builds the server with all routes and middleware wired.
func New(cfg *config.Config, provider yahoo.Provider, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "server").Logger()

	router := mux.NewRouter()
	router.Use(recoverMiddleware(logger))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))
	if cfg.OriginGateActive() {
		logger.Info().Str("allowed_origin", cfg.Server.AllowedOrigin).Msg("origin gate enabled")
		router.Use(originGateMiddleware(cfg.Server.AllowedOrigin))
	}

	optionsHandler := NewOptionsHandler(provider, cfg.Yahoo.HistoryRange, logger)

	api := router.PathPrefix("/api").Subrouter()
	api.Handle("/stock-options", optionsHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("", healthHandler).Methods(http.MethodGet, http.MethodOptions)

	return &Server{
		cfg:    cfg.Server,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving requests until the context is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	s.logger.Info().Msg("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}
