package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/metrics"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, database database.Database, deps Dependencies) (Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return Server{}, errors.New("jwt secret is not resolved")
	}

	// Bind to 0.0.0.0 for external access
	address := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	startupTime := time.Now()

	router := newRouter(database, withConfig(cfg), withDependencies(deps), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      *config.Config
	deps        Dependencies
	startupTime time.Time
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withDependencies(deps Dependencies) func(*router) {
	return func(r *router) {
		r.deps = deps
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	cfg := router.config

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(metrics.Middleware)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AcceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// A cancelled request context rolls back any open transaction.
	chiRouter.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	handlers := initializeHandlers(database, cfg, router.deps, router.startupTime)
	authMiddleware := newAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	chiRouter.Route("/api/v1", func(r chi.Router) {
		setupPublicRoutes(r, handlers)
		setupAuthenticatedRoutes(r, handlers, authMiddleware, cfg.Resume.UploadsPerMinute)
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
