package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog"
	"inspire-bytes/internal/server/handlers"
	"inspire-bytes/internal/site"
	"inspire-bytes/views"
)

type Server struct {
	config      *core.Config
	logger      *core.Logger
	db          *core.Database
	metrics     *core.Metrics
	titles      *site.TitleStore
	blacklist   auth.Blacklist
	authService *auth.Service
	registry    *core.Registry
	blog        *blog.Feature
	server      *http.Server
}

// New wires the portal: database, token blacklist, auth service and features
func New(ctx context.Context, config *core.Config, logger *core.Logger) (*Server, error) {
	db, err := core.OpenDatabase(config.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	blogConfig, err := blog.NewConfig(config)
	if err != nil {
		db.Close()
		return nil, err
	}

	metrics := core.NewMetrics()
	titles := site.NewTitleStore()
	blacklist := newBlacklist(ctx, config.Redis, logger)
	issuer := auth.NewTokenIssuer(config.Auth.JWTSecret, config.Auth.TokenTTL)
	authService := auth.NewService(db, logger, issuer, blacklist)
	registry := core.NewRegistry(logger)

	blogFeature := blog.NewFeature(logger, db, blogConfig, titles, metrics)
	if err := registry.Register(blogFeature); err != nil {
		db.Close()
		return nil, err
	}

	srv := &Server{
		config:      config,
		logger:      logger,
		db:          db,
		metrics:     metrics,
		titles:      titles,
		blacklist:   blacklist,
		authService: authService,
		registry:    registry,
		blog:        blogFeature,
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// newBlacklist connects to redis when configured and falls back to process memory otherwise
func newBlacklist(ctx context.Context, cfg core.RedisConfig, logger *core.Logger) auth.Blacklist {
	if cfg.Addr == "" {
		return auth.NewMemoryBlacklist()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	blacklist, err := auth.NewRedisBlacklist(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("Redis unavailable, revoked tokens will be kept in memory", "addr", cfg.Addr, "error", err)
		return auth.NewMemoryBlacklist()
	}
	logger.Info("Using redis token blacklist", "addr", cfg.Addr)
	return blacklist
}

func (s *Server) routes() http.Handler {
	portalHandler := handlers.NewPortalHandler(s.logger, s.registry, s.db)
	authHandler := auth.NewHandler(s.authService, s.titles, s.metrics)
	limiter := auth.NewLoginLimiter(s.config.Auth.LoginRate, s.config.Auth.LoginBurst)

	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)

	// Health, metrics and static assets need no session
	mux.Get("/health", portalHandler.HealthCheckHandler)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	mux.Method(http.MethodGet, "/assets/*", handlers.StaticHandler(views.Assets()))

	mux.Group(func(r chi.Router) {
		r.Use(site.SessionMiddleware)
		r.Use(auth.WebAuthMiddleware(s.authService))

		r.Get("/auth/login", authHandler.LoginPageHandler)
		r.With(limiter.Middleware).Post("/auth/login", authHandler.LoginHandler)
		r.With(limiter.Middleware).Post("/auth/register", authHandler.RegisterHandler)
		r.Post("/auth/logout", authHandler.LogoutHandler)

		r.Route("/api/users", func(r chi.Router) {
			r.Use(auth.RequireRegisteredUser)
			r.Get("/", authHandler.ListUsersHandler)
			r.Get("/{id}", authHandler.GetUserHandler)
		})

		// Feature routes
		for _, route := range s.registry.GetAllRoutes() {
			r.With(route.Middleware...).Method(route.Method, route.Path, route.Handler)
		}
	})

	return mux
}

// Handler returns the HTTP handler of the portal
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs migrations, initializes features and serves until Shutdown
func (s *Server) Start(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	if err := s.registry.InitAll(ctx); err != nil {
		s.logger.Error("Failed to initialize features", "error", err)
		return err
	}

	s.logger.Info("Starting server", "host", s.config.Server.Host, "port", s.config.Server.Port)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	// Shutdown all features
	if err := s.registry.ShutdownAll(ctx); err != nil {
		s.logger.Error("Failed to shutdown features", "error", err)
	}

	return s.Close()
}

// Close releases the blacklist connection and the database
func (s *Server) Close() error {
	if closer, ok := s.blacklist.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("Failed to close token blacklist", "error", err)
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
